// Package v0 contains API handlers for version 0 of the API
package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/telemetry"
)

// HealthBody represents the health check response body
type HealthBody struct {
	Status        string `json:"status" example:"ok" doc:"Health status"`
	Version       string `json:"version" doc:"Server version"`
	AnonymousAuth bool   `json:"anonymous_auth" doc:"Whether anonymous sessions can be requested"`
	OIDC          bool   `json:"oidc" doc:"Whether OIDC login is available"`
}

// RegisterHealthEndpoint registers the health check endpoint
func RegisterHealthEndpoint(api huma.API, cfg *config.Config, metrics *telemetry.Metrics) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/v0/health",
		Summary:     "Health check",
		Description: "Check the health status of the API and the login methods it offers",
		Tags:        []string{"health"},
	}, func(ctx context.Context, _ *struct{}) (*Response[HealthBody], error) {
		if metrics != nil {
			metrics.Up.Record(ctx, 1, metric.WithAttributes(
				attribute.String("service", telemetry.Namespace),
			))
		}

		return &Response[HealthBody]{
			Body: HealthBody{
				Status:        "ok",
				Version:       cfg.Version,
				AnonymousAuth: cfg.EnableAnonymousAuth,
				OIDC:          cfg.OIDCEnabled,
			},
		}, nil
	})
}
