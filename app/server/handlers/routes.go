package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"net/http"
	"recipe-app-api/app/server/apidocs"
	"recipe-app-api/app/server/middlewares"
	"recipe-app-api/app/server/serializers"
)

type AuthLevel int

const (
	AuthNone  AuthLevel = iota // 公开
	AuthToken                  // 需要登录
	AuthStaff                  // 需要管理员
)

type Route struct {
	apidocs.Operation
	Auth        AuthLevel
	Handler     echo.HandlerFunc
	Middlewares []echo.MiddlewareFunc
}

type Options struct {
	TokenRateLimit float64 // 每个 IP 每秒请求数，0 为不限制
}

// Routes is the route table of the API; the same table feeds the API document.
func (a *App) Routes(opts Options) []Route {
	var tokenLimit []echo.MiddlewareFunc
	if opts.TokenRateLimit > 0 {
		tokenLimit = append(tokenLimit, middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(opts.TokenRateLimit)),
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return a.er(c, http.StatusTooManyRequests)
			},
		}))
	}

	idQuery := func(name string, what string) apidocs.Param {
		return apidocs.Param{Name: name, Description: "Comma separated " + what + " ids; a recipe matches when it has any of them", Type: "string"}
	}

	return []Route{
		// 用户
		{Operation: apidocs.Operation{Method: http.MethodPost, Path: "/api/users/create", Name: "userCreate", Summary: "Create a new user", Tag: "users",
			Request: serializers.UserCreateInput{}, Status: http.StatusCreated, Response: serializers.UserOutput{}},
			Handler: a.UserCreate},
		{Operation: apidocs.Operation{Method: http.MethodPost, Path: "/api/users/token", Name: "tokenCreate", Summary: "Exchange credentials for a token", Tag: "users",
			Request: serializers.TokenInput{}, Status: http.StatusOK, Response: serializers.TokenOutput{}},
			Handler: a.TokenCreate, Middlewares: tokenLimit},
		{Operation: apidocs.Operation{Method: http.MethodPost, Path: "/api/users/logout", Name: "tokenDelete", Summary: "Revoke the current token", Tag: "users",
			Status: http.StatusNoContent},
			Auth: AuthToken, Handler: a.TokenDelete},
		{Operation: apidocs.Operation{Method: http.MethodGet, Path: "/api/users/me", Name: "userMeGet", Summary: "Get the authenticated user", Tag: "users",
			Status: http.StatusOK, Response: serializers.UserOutput{}},
			Auth: AuthToken, Handler: a.UserMeGet},
		{Operation: apidocs.Operation{Method: http.MethodPut, Path: "/api/users/me", Name: "userMeUpdate", Summary: "Replace the authenticated user's profile", Tag: "users",
			Request: serializers.UserUpdateInput{}, Status: http.StatusOK, Response: serializers.UserOutput{}},
			Auth: AuthToken, Handler: a.UserMeUpdate},
		{Operation: apidocs.Operation{Method: http.MethodPatch, Path: "/api/users/me", Name: "userMePatch", Summary: "Update the authenticated user's profile", Tag: "users",
			Request: serializers.UserUpdateInput{}, Status: http.StatusOK, Response: serializers.UserOutput{}},
			Auth: AuthToken, Handler: a.UserMeUpdate},
		{Operation: apidocs.Operation{Method: http.MethodDelete, Path: "/api/users/me", Name: "userMeDelete", Summary: "Delete the authenticated user and everything it owns", Tag: "users",
			Status: http.StatusNoContent},
			Auth: AuthToken, Handler: a.UserMeDelete},

		// 菜谱
		{Operation: apidocs.Operation{Method: http.MethodGet, Path: "/api/recipes", Name: "recipeList", Summary: "List own recipes, newest first", Tag: "recipes",
			Query: []apidocs.Param{idQuery("tags", "tag"), idQuery("ingredients", "ingredient")}, Status: http.StatusOK, Response: []serializers.RecipeOutput{}},
			Auth: AuthToken, Handler: a.RecipeList},
		{Operation: apidocs.Operation{Method: http.MethodPost, Path: "/api/recipes", Name: "recipeCreate", Summary: "Create a recipe", Tag: "recipes",
			Request: serializers.RecipeInput{}, Status: http.StatusCreated, Response: serializers.RecipeDetailOutput{}},
			Auth: AuthToken, Handler: a.RecipeCreate},
		{Operation: apidocs.Operation{Method: http.MethodGet, Path: "/api/recipes/:id", Name: "recipeGet", Summary: "Get a recipe", Tag: "recipes",
			Status: http.StatusOK, Response: serializers.RecipeDetailOutput{}},
			Auth: AuthToken, Handler: a.RecipeGet},
		{Operation: apidocs.Operation{Method: http.MethodPut, Path: "/api/recipes/:id", Name: "recipeUpdate", Summary: "Replace a recipe", Tag: "recipes",
			Request: serializers.RecipeInput{}, Status: http.StatusOK, Response: serializers.RecipeDetailOutput{}},
			Auth: AuthToken, Handler: a.RecipeUpdate},
		{Operation: apidocs.Operation{Method: http.MethodPatch, Path: "/api/recipes/:id", Name: "recipePatch", Summary: "Update some fields of a recipe", Tag: "recipes",
			Request: serializers.RecipeInput{}, Status: http.StatusOK, Response: serializers.RecipeDetailOutput{}},
			Auth: AuthToken, Handler: a.RecipeUpdate},
		{Operation: apidocs.Operation{Method: http.MethodDelete, Path: "/api/recipes/:id", Name: "recipeDelete", Summary: "Delete a recipe", Tag: "recipes",
			Status: http.StatusNoContent},
			Auth: AuthToken, Handler: a.RecipeDelete},
		{Operation: apidocs.Operation{Method: http.MethodPost, Path: "/api/recipes/:id/upload-image", Name: "recipeUploadImage", Summary: "Upload the image of a recipe", Tag: "recipes",
			UploadField: "image", Status: http.StatusOK, Response: serializers.RecipeImageOutput{}},
			Auth: AuthToken, Handler: a.RecipeUploadImage},

		// 标签
		{Operation: apidocs.Operation{Method: http.MethodGet, Path: "/api/tags", Name: "tagList", Summary: "List own tags", Tag: "tags",
			Query: []apidocs.Param{{Name: "assigned_only", Description: "Only tags attached to a recipe", Type: "boolean"}}, Status: http.StatusOK, Response: []serializers.AttrOutput{}},
			Auth: AuthToken, Handler: a.TagList},
		{Operation: apidocs.Operation{Method: http.MethodPut, Path: "/api/tags/:id", Name: "tagUpdate", Summary: "Rename a tag", Tag: "tags",
			Request: serializers.AttrUpdateInput{}, Status: http.StatusOK, Response: serializers.AttrOutput{}},
			Auth: AuthToken, Handler: a.TagUpdate},
		{Operation: apidocs.Operation{Method: http.MethodPatch, Path: "/api/tags/:id", Name: "tagPatch", Summary: "Rename a tag", Tag: "tags",
			Request: serializers.AttrUpdateInput{}, Status: http.StatusOK, Response: serializers.AttrOutput{}},
			Auth: AuthToken, Handler: a.TagUpdate},
		{Operation: apidocs.Operation{Method: http.MethodDelete, Path: "/api/tags/:id", Name: "tagDelete", Summary: "Delete a tag", Tag: "tags",
			Status: http.StatusNoContent},
			Auth: AuthToken, Handler: a.TagDelete},

		// 配料
		{Operation: apidocs.Operation{Method: http.MethodGet, Path: "/api/ingredients", Name: "ingredientList", Summary: "List own ingredients", Tag: "ingredients",
			Query: []apidocs.Param{{Name: "assigned_only", Description: "Only ingredients attached to a recipe", Type: "boolean"}}, Status: http.StatusOK, Response: []serializers.AttrOutput{}},
			Auth: AuthToken, Handler: a.IngredientList},
		{Operation: apidocs.Operation{Method: http.MethodPut, Path: "/api/ingredients/:id", Name: "ingredientUpdate", Summary: "Rename an ingredient", Tag: "ingredients",
			Request: serializers.AttrUpdateInput{}, Status: http.StatusOK, Response: serializers.AttrOutput{}},
			Auth: AuthToken, Handler: a.IngredientUpdate},
		{Operation: apidocs.Operation{Method: http.MethodPatch, Path: "/api/ingredients/:id", Name: "ingredientPatch", Summary: "Rename an ingredient", Tag: "ingredients",
			Request: serializers.AttrUpdateInput{}, Status: http.StatusOK, Response: serializers.AttrOutput{}},
			Auth: AuthToken, Handler: a.IngredientUpdate},
		{Operation: apidocs.Operation{Method: http.MethodDelete, Path: "/api/ingredients/:id", Name: "ingredientDelete", Summary: "Delete an ingredient", Tag: "ingredients",
			Status: http.StatusNoContent},
			Auth: AuthToken, Handler: a.IngredientDelete},

		// 管理
		{Operation: apidocs.Operation{Method: http.MethodGet, Path: "/api/admin/users", Name: "adminUserList", Summary: "List all users", Tag: "admin",
			Query: []apidocs.Param{
				{Name: "page", Description: "1-based page; page=0&limit=0 lists everything", Type: "integer"},
				{Name: "limit", Description: "Page size, 100 by default", Type: "integer"},
			}, Status: http.StatusOK, Response: serializers.AdminUserListResponse{}},
			Auth: AuthStaff, Handler: a.AdminUserList},

		// 公共
		{Operation: apidocs.Operation{Method: http.MethodGet, Path: "/api/healthcheck", Name: "healthCheck", Summary: "Check the database and the cache", Tag: "common",
			Status: http.StatusOK, Response: HealthCheckResponse{}},
			Handler: a.HealthCheck},
	}
}

// Register mounts routes on e and installs the request validator.
func (a *App) Register(e *echo.Echo, routes []Route) {
	e.Validator = serializers.NewValidator()

	tokenAuth := middlewares.TokenAuth(a.tokens, a.l)
	for _, r := range routes {
		mws := append([]echo.MiddlewareFunc{}, r.Middlewares...)
		switch r.Auth {
		case AuthToken:
			mws = append(mws, tokenAuth)
		case AuthStaff:
			mws = append(mws, tokenAuth, middlewares.RequireStaff())
		}
		e.Add(r.Method, r.Path, r.Handler, mws...).Name = r.Name
	}
}

// Operations lists the documented part of routes.
func Operations(routes []Route) []apidocs.Operation {
	ops := make([]apidocs.Operation, 0, len(routes))
	for _, r := range routes {
		op := r.Operation
		op.Secured = r.Auth != AuthNone
		ops = append(ops, op)
	}
	return ops
}
