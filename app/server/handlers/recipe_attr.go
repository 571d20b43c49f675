package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/serializers"
	"recipe-app-api/app/server/store"
	"strings"
)

// 方法不能有类型形参，所以 tag 和 ingredient 共用下面的函数

func listAttrs[M models.RecipeAttr](a *App, c echo.Context, repo store.AttrRepository[M]) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	assignedOnly, err := a.queryBool(c, "assigned_only")
	if err != nil {
		return a.fail(c, err, "parse query")
	}

	attrs, err := repo.List(c.Request().Context(), me.ID, assignedOnly)
	if err != nil {
		return a.fail(c, err, "get attr list", zap.Uint("user", me.ID))
	}

	return c.JSON(http.StatusOK, serializers.NewAttrOutputs(attrs))
}

func updateAttr[M models.RecipeAttr](a *App, c echo.Context, repo store.AttrRepository[M]) error {
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
	var req serializers.AttrUpdateInput
	if err := a.bind(c, &req); err != nil {
		return a.fail(c, err, "bind request")
	}
	if c.Request().Method == http.MethodPut {
		if err := req.Complete(); err != nil {
			return a.fail(c, err, "bind request")
		}
	}

	rctx := c.Request().Context()

	var attr *M
	if req.Name == nil {
		// 没有需要修改的字段
		attr, err = repo.Get(rctx, me.ID, id)
	} else {
		attr, err = repo.Rename(rctx, me.ID, id, strings.TrimSpace(*req.Name))
	}
	if errors.Is(err, errs.ErrDuplicate) {
		return a.fail(c, errs.Duplicate("name", "An entry with this name already exists."), "rename attr")
	} else if err != nil {
		return a.fail(c, err, "update attr", zap.Uint("id", id))
	}

	return c.JSON(http.StatusOK, serializers.NewAttrOutput(*attr))
}

func deleteAttr[M models.RecipeAttr](a *App, c echo.Context, repo store.AttrRepository[M]) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	id, err := a.parseID(c)
	if err != nil {
		return a.fail(c, err, "parse id")
	}

	if err := repo.Delete(c.Request().Context(), me.ID, id); err != nil {
		return a.fail(c, err, "delete attr", zap.Uint("id", id))
	}

	return c.NoContent(http.StatusNoContent)
}

func (a *App) TagList(c echo.Context) error {
	return listAttrs(a, c, a.tags)
}

func (a *App) TagUpdate(c echo.Context) error {
	return updateAttr(a, c, a.tags)
}

func (a *App) TagDelete(c echo.Context) error {
	return deleteAttr(a, c, a.tags)
}

func (a *App) IngredientList(c echo.Context) error {
	return listAttrs(a, c, a.ingredients)
}

func (a *App) IngredientUpdate(c echo.Context) error {
	return updateAttr(a, c, a.ingredients)
}

func (a *App) IngredientDelete(c echo.Context) error {
	return deleteAttr(a, c, a.ingredients)
}
