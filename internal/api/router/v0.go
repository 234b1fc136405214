package router

import (
	"github.com/danielgtaylor/huma/v2"

	v0 "github.com/qadesk/qadesk/internal/api/handlers/v0"
	v0auth "github.com/qadesk/qadesk/internal/api/handlers/v0/auth"
	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/service"
	"github.com/qadesk/qadesk/internal/telemetry"
)

// RegisterV0Routes registers every /v0 operation. A single JWT manager both
// issues and checks session tokens.
func RegisterV0Routes(api huma.API, cfg *config.Config, svc service.QAService, metrics *telemetry.Metrics) {
	jwtManager := auth.NewJWTManager(cfg)
	authn := v0.NewAuthenticator(jwtManager)

	v0.RegisterHealthEndpoint(api, cfg, metrics)
	v0.RegisterPingEndpoint(api)
	v0.RegisterValidateEndpoints(api)
	v0auth.RegisterAuthEndpoints(api, cfg, jwtManager)
	v0.RegisterUserEndpoints(api, svc, authn)
	v0.RegisterWebsitesEndpoints(api, svc, authn, metrics)
	v0.RegisterItemEndpoints(api, svc, authn)
	v0.RegisterTestRunEndpoints(api, svc, authn, metrics)
}
