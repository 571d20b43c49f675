package inits

import (
	"context"
	"fmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Tracing installs an OTLP HTTP exporter when endpoint is set; otherwise tracing stays a no-op.
// The returned function flushes pending spans.
func Tracing(ctx context.Context, l *zap.Logger, endpoint string, isProd bool) (func(context.Context) error, error) {
	if endpoint == "" {
		l.Debug("tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	environment := "development"
	if isProd {
		environment = "production"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("recipe-app-api"),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	l.Info("tracing initialized", zap.String("endpoint", endpoint))
	return tp.Shutdown, nil
}
