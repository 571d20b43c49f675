// Package metrics exposes prometheus counters for requests and recipe activity.
package metrics

import (
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"time"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recipe_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_login_attempts_total",
		Help: "Token requests by result",
	}, []string{"result"})

	imageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_image_uploads_total",
		Help: "Recipe image uploads by result",
	}, []string{"result"})

	imageUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recipe_image_upload_bytes",
		Help:    "Size of accepted recipe images",
		Buckets: prometheus.ExponentialBuckets(16<<10, 4, 6),
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveLogin records a token request; result is "issued", "rejected" or "error".
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveImageUpload records an upload; size is only observed for accepted images.
func ObserveImageUpload(result string, size int64) {
	imageUploads.WithLabelValues(result).Inc()
	if result == "stored" {
		imageUploadBytes.Observe(float64(size))
	}
}

// Middleware labels requests by route pattern so ids do not explode the label set.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// 错误还没有写入响应
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			ObserveHTTPRequest(c.Request().Method, path, strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
