package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"recipe-app-api/app/server/apidocs"
	"recipe-app-api/app/server/handlers"
	"recipe-app-api/app/server/inits"
	"recipe-app-api/app/server/metrics"
	"strings"
	"syscall"
	"time"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer l.Sync()

	// 切换日志系统
	l.Debug("logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化链路追踪
	shutdownTracing, err := inits.Tracing(ctx, l, cfg.Telemetry.OTLPEndpoint, cfg.System.IsProd)
	if err != nil {
		l.Fatal("error initializing tracing", zap.Error(err))
	}

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBConnectionString)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化超级用户
	if cfg.Bootstrap.SuperuserEmail != "" {
		if created, err := inits.Superuser(ctx, db, cfg.Bootstrap.SuperuserEmail, cfg.Bootstrap.SuperuserPassword); err != nil {
			l.Fatal("error initializing superuser", zap.Error(err))
		} else if created {
			l.Info("superuser created", zap.String("email", cfg.Bootstrap.SuperuserEmail))
		}
	}

	// 初始化 redis 连接
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	// 初始化图片存储
	s, err := inits.Storage(ctx, cfg)
	if err != nil {
		l.Fatal("error initializing storage", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, rdb, s)
	routes := handlerApp.Routes(handlers.Options{
		TokenRateLimit: cfg.Security.TokenRateLimit,
	})

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("recipe-app-api")))
	e.Use(metrics.Middleware())

	// 绑定 echo 服务
	handlerApp.Register(e, routes)
	e.GET("/metrics", metrics.Handler())
	if cfg.Storage.Driver == "local" {
		e.Static(strings.TrimSuffix(cfg.Storage.MediaURL, "/"), cfg.Storage.MediaRoot)
	}

	// 添加 API 文档
	if !cfg.System.IsProd {
		if swg, err := apidocs.Build("Recipe API", "1.0.0", handlers.ErrorMessage{}, handlers.Operations(routes)); err != nil {
			l.Error("error initializing swagger", zap.Error(err))
		} else if swgJson, err := swg.MarshalJSON(); err != nil {
			l.Error("error initializing swagger", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/api", swgJson))
		}
	}

	// 启动 echo 服务
	go func() {
		if err := e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error("error shutting down the server", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		l.Error("error shutting down tracing", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		l.Error("error closing Redis connection", zap.Error(err))
	}
}
