package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	v0 "github.com/qadesk/qadesk/internal/api/handlers/v0"
	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/config"
)

// NoneHandler handles anonymous authentication
type NoneHandler struct {
	jwtManager *auth.JWTManager
}

// NewNoneHandler creates a new anonymous authentication handler
func NewNoneHandler(jwtManager *auth.JWTManager) *NoneHandler {
	return &NoneHandler{
		jwtManager: jwtManager,
	}
}

// RegisterNoneEndpoint registers the anonymous authentication endpoint
func RegisterNoneEndpoint(api huma.API, cfg *config.Config, jwtManager *auth.JWTManager) {
	if !cfg.EnableAnonymousAuth {
		return
	}

	handler := NewNoneHandler(jwtManager)

	// Anonymous token endpoint
	huma.Register(api, huma.Operation{
		OperationID: "get-anonymous-token",
		Method:      http.MethodPost,
		Path:        "/v0/auth/none",
		Summary:     "Get anonymous session token",
		Description: "Get a short-lived session token for a fresh anonymous principal",
		Tags:        []string{"auth"},
	}, func(ctx context.Context, _ *struct{}) (*v0.Response[auth.TokenResponse], error) {
		response, err := handler.GetAnonymousToken(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to generate token", err)
		}

		return &v0.Response[auth.TokenResponse]{
			Body: *response,
		}, nil
	})
}

// GetAnonymousToken issues a token for a new principal of the form anon:<uuid>
func (h *NoneHandler) GetAnonymousToken(ctx context.Context) (*auth.TokenResponse, error) {
	claims := auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: string(auth.PrincipalFor(auth.MethodAnonymous, uuid.NewString())),
		},
		AuthMethod: auth.MethodAnonymous,
	}

	tokenResponse, err := h.jwtManager.GenerateTokenResponse(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT token: %w", err)
	}

	return tokenResponse, nil
}
