package v0

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/model"
)

// AuthHeader is embedded in every input that acts on behalf of a caller.
// The header is optional; requests without it run as model.Anonymous.
type AuthHeader struct {
	Authorization string `header:"Authorization" doc:"Session token as 'Bearer <token>'" required:"false"`
}

// Authenticator resolves Authorization headers into principals
type Authenticator struct {
	jwtManager *auth.JWTManager
}

// NewAuthenticator creates an authenticator that trusts tokens signed by jwtManager
func NewAuthenticator(jwtManager *auth.JWTManager) *Authenticator {
	return &Authenticator{jwtManager: jwtManager}
}

// Caller returns the principal behind header. An absent header yields
// model.Anonymous; a malformed or expired token is a 401.
func (a *Authenticator) Caller(ctx context.Context, header string) (model.Principal, error) {
	if header == "" {
		return model.Anonymous, nil
	}

	token, err := auth.ExtractBearerToken(header)
	if err != nil {
		return model.Anonymous, huma.Error401Unauthorized("Invalid Authorization header format. Expected 'Bearer <token>'")
	}

	claims, err := a.jwtManager.ValidateToken(ctx, token)
	if err != nil {
		return model.Anonymous, huma.Error401Unauthorized("Invalid or expired session token", err)
	}

	return claims.Principal(), nil
}

// bearerSecurity marks operations that accept a session token
var bearerSecurity = []map[string][]string{
	{"bearer": {}},
}
