package handlers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"recipe-app-api/app/server/serializers"
)

func (a *App) UserCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req serializers.UserCreateInput
	if err := a.bind(c, &req); err != nil {
		return a.fail(c, err, "bind request")
	}

	// 创建用户
	user, err := a.accounts.CreateUser(rctx, req.Email, req.Password, req.Name)
	if err != nil {
		return a.fail(c, err, "create user", zap.String("email", req.Email))
	}

	return c.JSON(http.StatusCreated, serializers.NewUserOutput(user))
}

func (a *App) UserMeGet(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	return c.JSON(http.StatusOK, serializers.NewUserOutput(me))
}

// UserMeUpdate serves both PUT and PATCH; PUT must carry email and password.
func (a *App) UserMeUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req serializers.UserUpdateInput
	if err := a.bind(c, &req); err != nil {
		return a.fail(c, err, "bind request")
	}
	if c.Request().Method == http.MethodPut {
		if err := req.Complete(); err != nil {
			return a.fail(c, err, "bind request")
		}
	}

	// 从数据库中获得完整的用户
	user, err := a.users.GetByID(rctx, me.ID)
	if err != nil {
		return a.fail(c, err, "get user", zap.Uint("id", me.ID))
	}

	// 更新用户信息
	if err := a.accounts.UpdateProfile(rctx, user, req.Changes()); err != nil {
		return a.fail(c, err, "update user", zap.Uint("id", me.ID))
	}

	// 缓存中的用户信息已经过期
	a.tokens.Forget(rctx, user.ID)

	return c.JSON(http.StatusOK, serializers.NewUserOutput(user))
}

func (a *App) UserMeDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	rctx := c.Request().Context()

	// 先注销 token ，清理缓存
	if err := a.tokens.Revoke(rctx, me.ID); err != nil {
		return a.fail(c, err, "revoke token", zap.Uint("id", me.ID))
	}

	// 删除用户及其所有数据
	images, err := a.accounts.DeleteUser(rctx, me.ID)
	if err != nil {
		return a.fail(c, err, "delete user", zap.Uint("id", me.ID))
	}

	// 清理图片文件
	a.images.Remove(rctx, images...)

	return c.NoContent(http.StatusNoContent)
}
