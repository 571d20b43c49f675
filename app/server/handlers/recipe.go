package handlers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/serializers"
	"recipe-app-api/app/server/store"
	"recipe-app-api/app/server/utils"
)

func (a *App) recipeFilter(c echo.Context) (store.RecipeFilter, error) {
	var (
		filter store.RecipeFilter
		err    error
	)
	verr := &errs.ValidationError{}

	if filter.TagIDs, err = utils.ParseIDs(c.QueryParam("tags")); err != nil {
		verr.Add("tags", "Enter a comma separated list of ids.")
	}
	if filter.IngredientIDs, err = utils.ParseIDs(c.QueryParam("ingredients")); err != nil {
		verr.Add("ingredients", "Enter a comma separated list of ids.")
	}

	return filter, verr.OrNil()
}

func (a *App) RecipeList(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	// 解析过滤条件
	filter, err := a.recipeFilter(c)
	if err != nil {
		return a.fail(c, err, "parse recipe filter")
	}

	recipes, err := a.recipes.List(c.Request().Context(), me.ID, filter)
	if err != nil {
		return a.fail(c, err, "get recipe list", zap.Uint("user", me.ID))
	}

	return c.JSON(http.StatusOK, serializers.NewRecipeOutputs(recipes))
}

func (a *App) RecipeCreate(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	// 绑定请求体
	var req serializers.RecipeInput
	if err := a.bind(c, &req); err != nil {
		return a.fail(c, err, "bind request")
	}
	if err := req.Complete(); err != nil {
		return a.fail(c, err, "bind request")
	}

	// 创建 recipe ，所属用户总是当前用户
	recipe, tags, ingredients := req.Recipe(me.ID)
	if err := a.recipes.Create(c.Request().Context(), recipe, tags, ingredients); err != nil {
		return a.fail(c, err, "create recipe", zap.Uint("user", me.ID))
	}

	return c.JSON(http.StatusCreated, serializers.NewRecipeDetailOutput(recipe, a.images.URL))
}

func (a *App) RecipeGet(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	id, err := a.parseID(c)
	if err != nil {
		return a.fail(c, err, "parse id")
	}

	recipe, err := a.recipes.Get(c.Request().Context(), me.ID, id)
	if err != nil {
		return a.fail(c, err, "get recipe", zap.Uint("id", id))
	}

	return c.JSON(http.StatusOK, serializers.NewRecipeDetailOutput(recipe, a.images.URL))
}

// RecipeUpdate serves both PUT and PATCH; PUT must carry every required field.
func (a *App) RecipeUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	id, err := a.parseID(c)
	if err != nil {
		return a.fail(c, err, "parse id")
	}

	// 绑定请求体
	var req serializers.RecipeInput
	if err := a.bind(c, &req); err != nil {
		return a.fail(c, err, "bind request")
	}
	if c.Request().Method == http.MethodPut {
		if err := req.Complete(); err != nil {
			return a.fail(c, err, "bind request")
		}
	}

	recipe, err := a.recipes.Update(c.Request().Context(), me.ID, id, req.Changes())
	if err != nil {
		return a.fail(c, err, "update recipe", zap.Uint("id", id))
	}

	return c.JSON(http.StatusOK, serializers.NewRecipeDetailOutput(recipe, a.images.URL))
}

func (a *App) RecipeDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	id, err := a.parseID(c)
	if err != nil {
		return a.fail(c, err, "parse id")
	}

	rctx := c.Request().Context()

	recipe, err := a.recipes.Delete(rctx, me.ID, id)
	if err != nil {
		return a.fail(c, err, "delete recipe", zap.Uint("id", id))
	}

	// 清理图片文件
	if recipe.Image != nil {
		a.images.Remove(rctx, *recipe.Image)
	}

	return c.NoContent(http.StatusNoContent)
}
