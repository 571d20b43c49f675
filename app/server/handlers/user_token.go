package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/metrics"
	"recipe-app-api/app/server/serializers"
)

func (a *App) TokenCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req serializers.TokenInput
	if err := a.bind(c, &req); err != nil {
		metrics.ObserveLogin("rejected")
		return a.fail(c, err, "bind request")
	}

	// 校验密码并签出 token
	token, err := a.tokens.Issue(rctx, req.Email, req.Password)
	if err != nil {
		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			metrics.ObserveLogin("rejected")
		} else {
			metrics.ObserveLogin("error")
		}
		return a.fail(c, err, "issue token")
	}
	metrics.ObserveLogin("issued")

	// 返回
	return c.JSON(http.StatusOK, &serializers.TokenOutput{
		Token: token.Key,
	})
}

func (a *App) TokenDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	if err := a.tokens.Revoke(c.Request().Context(), me.ID); err != nil {
		return a.fail(c, err, "revoke token", zap.Uint("id", me.ID))
	}

	return c.NoContent(http.StatusNoContent)
}
