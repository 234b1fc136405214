// Package router contains API routing logic
package router

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	v0 "github.com/qadesk/qadesk/internal/api/handlers/v0"
	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/service"
	"github.com/qadesk/qadesk/internal/telemetry"
)

// NewHumaAPI creates the Huma API on mux with every route, the metrics
// endpoint and the Swagger UI registered
func NewHumaAPI(cfg *config.Config, svc service.QAService, mux *http.ServeMux, metrics *telemetry.Metrics) huma.API {
	humaConfig := huma.DefaultConfig("qadesk API", cfg.Version)
	humaConfig.Info.Description = "Manage websites under test with their test cases, bugs, corner cases and test runs"
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	api := humago.New(mux, humaConfig)

	api.UseMiddleware(MetricTelemetryMiddleware(metrics,
		WithSkipPaths("/health", "/metrics", "/ping", "/docs"),
	))

	RegisterV0Routes(api, cfg, svc, metrics)

	mux.Handle("/metrics", metrics.PrometheusHandler())
	mux.Handle("/v0/swagger/", v0.SwaggerHandler("/openapi.json"))

	return api
}
