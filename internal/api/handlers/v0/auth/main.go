// Package auth registers the endpoints that exchange credentials for qadesk
// session tokens
package auth

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/config"
)

// RegisterAuthEndpoints registers all authentication endpoints. Tokens are
// signed by jwtManager, which must be the manager the API validates with.
func RegisterAuthEndpoints(api huma.API, cfg *config.Config, jwtManager *auth.JWTManager) {
	// Register anonymous authentication endpoint
	RegisterNoneEndpoint(api, cfg, jwtManager)

	// Register OIDC authentication endpoints
	RegisterOIDCEndpoints(api, cfg, jwtManager)
}
