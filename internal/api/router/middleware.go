package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/qadesk/qadesk/internal/telemetry"
)

type middlewareConfig struct {
	skipPaths []string
}

// MiddlewareOption configures MetricTelemetryMiddleware
type MiddlewareOption func(*middlewareConfig)

// WithSkipPaths excludes requests whose path ends with one of paths
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// MetricTelemetryMiddleware records request count, duration and errors per
// route template
func MetricTelemetryMiddleware(metrics *telemetry.Metrics, options ...MiddlewareOption) func(huma.Context, func(huma.Context)) {
	cfg := &middlewareConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		path := ctx.URL().Path
		for _, skip := range cfg.skipPaths {
			if strings.HasSuffix(path, skip) {
				next(ctx)
				return
			}
		}

		start := time.Now()
		next(ctx)
		duration := time.Since(start).Seconds()

		// Label by route template, not raw path
		route := path
		if op := ctx.Operation(); op != nil {
			route = op.Path
		}

		attrs := metric.WithAttributes(
			attribute.String("method", ctx.Method()),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(ctx.Status())),
		)

		metrics.Requests.Add(ctx.Context(), 1, attrs)
		metrics.RequestDuration.Record(ctx.Context(), duration, attrs)
		if ctx.Status() >= 400 {
			metrics.ErrorCount.Add(ctx.Context(), 1, attrs)
		}
	}
}
