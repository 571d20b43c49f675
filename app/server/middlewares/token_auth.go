package middlewares

import (
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"recipe-app-api/app/server/constants"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"strings"
)

type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*models.User, error)
}

type errorMessage struct {
	Message string `json:"message"`
}

func deny(c echo.Context, statusCode int) error {
	if statusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Token")
	}
	return c.JSON(statusCode, &errorMessage{
		Message: http.StatusText(statusCode),
	})
}

// tokenKey accepts both "Token <key>" and "Bearer <key>".
func tokenKey(authHeader string) (string, bool) {
	splits := strings.Fields(authHeader)
	if len(splits) != 2 {
		return "", false
	}

	switch strings.ToLower(splits[0]) {
	case "token", "bearer":
		return splits[1], true
	default:
		return "", false
	}
}

func TokenAuth(auth Authenticator, l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 提取 token
			key, ok := tokenKey(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return deny(c, http.StatusUnauthorized)
			}

			// 验证 token
			user, err := auth.Authenticate(c.Request().Context(), key)
			if err != nil {
				if errors.Is(err, errs.ErrUnauthenticated) {
					return deny(c, http.StatusUnauthorized)
				}
				l.Error("failed to authenticate token", zap.Error(err))
				return deny(c, http.StatusInternalServerError)
			}

			// 设置 context
			c.Set(constants.ContextKeyUser, user)

			// 继续处理
			return next(c)
		}
	}
}

// RequireStaff must run after TokenAuth.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(constants.ContextKeyUser).(*models.User)
			if !ok {
				return deny(c, http.StatusUnauthorized)
			}
			if !user.IsStaff {
				return deny(c, http.StatusForbidden)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user TokenAuth stored on the context.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(constants.ContextKeyUser).(*models.User)
	return user, ok
}
