package handlers

import (
	"context"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type HealthCheckResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthCheck reports whether the database and the token cache answer; either failing yields 503.
func (a *App) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	res := HealthCheckResponse{Database: "ok", Cache: "ok"}
	status := http.StatusOK

	// 数据库
	if sqlDB, err := a.db.DB(); err != nil {
		a.l.Warn("healthcheck: get database handle", zap.Error(err))
		res.Database, status = "unavailable", http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(ctx); err != nil {
		a.l.Warn("healthcheck: ping database", zap.Error(err))
		res.Database, status = "unavailable", http.StatusServiceUnavailable
	}

	// 缓存
	if err := a.rdb.Ping(ctx).Err(); err != nil {
		a.l.Warn("healthcheck: ping redis", zap.Error(err))
		res.Cache, status = "unavailable", http.StatusServiceUnavailable
	}

	return c.JSON(status, &res)
}
