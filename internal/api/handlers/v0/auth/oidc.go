package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	v0 "github.com/qadesk/qadesk/internal/api/handlers/v0"
	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/config"
)

// sessionTTL bounds the time between /start and /callback
const sessionTTL = 5 * time.Minute

var (
	ErrInvalidState   = errors.New("invalid state parameter")
	ErrSessionExpired = errors.New("authentication session expired")
	ErrNonceMismatch  = errors.New("nonce mismatch")
)

// OIDCTokenExchangeInput represents the input for OIDC token exchange
type OIDCTokenExchangeInput struct {
	Body struct {
		OIDCToken string `json:"oidc_token" doc:"OIDC ID token from the configured provider" required:"true"`
	}
}

// OIDCCallbackInput represents the input for OIDC callback
type OIDCCallbackInput struct {
	Code  string `query:"code" doc:"Authorization code from OIDC provider" required:"true"`
	State string `query:"state" doc:"State parameter for CSRF protection" required:"true"`
}

// OIDCStartBody is returned when a browser login starts
type OIDCStartBody struct {
	AuthorizationURL string `json:"authorization_url"`
	Message          string `json:"message"`
}

// OIDCClaims represents the claims we extract from an OIDC ID token
type OIDCClaims struct {
	Subject string
	Issuer  string
	Nonce   string
}

// GenericOIDCValidator defines the interface for validating OIDC tokens from any provider
type GenericOIDCValidator interface {
	ValidateToken(ctx context.Context, token string) (*OIDCClaims, error)
	GetAuthorizationURL(state, nonce string) string
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)
}

// StandardOIDCValidator validates OIDC tokens using go-oidc library
type StandardOIDCValidator struct {
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
}

// NewStandardOIDCValidator discovers the provider at issuer and prepares the
// authorization code flow for redirectURL
func NewStandardOIDCValidator(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*StandardOIDCValidator, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OIDC provider: %w", err)
	}

	return &StandardOIDCValidator{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		oauth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// ValidateToken validates an OIDC ID token using go-oidc library
func (v *StandardOIDCValidator) ValidateToken(ctx context.Context, tokenString string) (*OIDCClaims, error) {
	idToken, err := v.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	return &OIDCClaims{
		Subject: idToken.Subject,
		Issuer:  idToken.Issuer,
		Nonce:   idToken.Nonce,
	}, nil
}

// GetAuthorizationURL constructs the OIDC authorization URL using oauth2
func (v *StandardOIDCValidator) GetAuthorizationURL(state, nonce string) string {
	return v.oauth2Config.AuthCodeURL(state, oidc.Nonce(nonce))
}

// ExchangeCodeForToken exchanges authorization code for ID token using oauth2
func (v *StandardOIDCValidator) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	token, err := v.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code for token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", fmt.Errorf("no ID token found in OAuth2 response")
	}

	return rawIDToken, nil
}

// OIDCHandler handles OIDC authentication
type OIDCHandler struct {
	jwtManager *auth.JWTManager
	validator  GenericOIDCValidator
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]OIDCSession
}

// OIDCSession stores OIDC flow state
type OIDCSession struct {
	Nonce     string
	CreatedAt time.Time
}

// NewOIDCHandler creates a new OIDC handler
func NewOIDCHandler(jwtManager *auth.JWTManager, validator GenericOIDCValidator) *OIDCHandler {
	return &OIDCHandler{
		jwtManager: jwtManager,
		validator:  validator,
		now:        time.Now,
		sessions:   make(map[string]OIDCSession),
	}
}

// SetClock replaces the time source used for session expiry (used for testing)
func (h *OIDCHandler) SetClock(now func() time.Time) {
	h.now = now
}

// RegisterOIDCEndpoints registers all OIDC authentication endpoints
func RegisterOIDCEndpoints(api huma.API, cfg *config.Config, jwtManager *auth.JWTManager) {
	if !cfg.OIDCEnabled {
		return // Skip registration if OIDC is not enabled
	}
	if cfg.OIDCIssuer == "" {
		panic("OIDC issuer is required when OIDC is enabled")
	}

	validator, err := NewStandardOIDCValidator(context.Background(),
		cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OIDC validator: %v", err))
	}

	RegisterOIDCOperations(api, NewOIDCHandler(jwtManager, validator))
}

// RegisterOIDCOperations registers the OIDC endpoints served by handler
func RegisterOIDCOperations(api huma.API, handler *OIDCHandler) {
	// Direct token exchange endpoint
	huma.Register(api, huma.Operation{
		OperationID: "exchange-oidc-token",
		Method:      http.MethodPost,
		Path:        "/v0/auth/oidc",
		Summary:     "Exchange OIDC ID token for a session token",
		Description: "Exchange an ID token from the configured provider for a short-lived session token",
		Tags:        []string{"auth"},
	}, func(ctx context.Context, input *OIDCTokenExchangeInput) (*v0.Response[auth.TokenResponse], error) {
		response, err := handler.ExchangeToken(ctx, input.Body.OIDCToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("Token exchange failed", err)
		}

		return &v0.Response[auth.TokenResponse]{
			Body: *response,
		}, nil
	})

	// Authorization start endpoint
	huma.Register(api, huma.Operation{
		OperationID: "oidc-auth-start",
		Method:      http.MethodGet,
		Path:        "/v0/auth/oidc/start",
		Summary:     "Start OIDC authorization flow",
		Description: "Returns the provider URL the user must visit to log in",
		Tags:        []string{"auth"},
	}, func(ctx context.Context, _ *struct{}) (*v0.Response[OIDCStartBody], error) {
		authURL, err := handler.StartAuth(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to start OIDC flow", err)
		}

		return &v0.Response[OIDCStartBody]{
			Body: OIDCStartBody{
				AuthorizationURL: authURL,
				Message:          "Visit the authorization URL to complete authentication",
			},
		}, nil
	})

	// Authorization callback endpoint
	huma.Register(api, huma.Operation{
		OperationID: "oidc-auth-callback",
		Method:      http.MethodGet,
		Path:        "/v0/auth/oidc/callback",
		Summary:     "Handle OIDC authorization callback",
		Description: "Handles the callback from the OIDC provider after user authorization",
		Tags:        []string{"auth"},
	}, func(ctx context.Context, input *OIDCCallbackInput) (*v0.Response[auth.TokenResponse], error) {
		response, err := handler.HandleCallback(ctx, input.Code, input.State)
		if err != nil {
			return nil, huma.Error400BadRequest("Failed to handle OIDC callback", err)
		}

		return &v0.Response[auth.TokenResponse]{
			Body: *response,
		}, nil
	})
}

// ExchangeToken exchanges an OIDC ID token for a session token
func (h *OIDCHandler) ExchangeToken(ctx context.Context, oidcToken string) (*auth.TokenResponse, error) {
	claims, err := h.validator.ValidateToken(ctx, oidcToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate OIDC token: %w", err)
	}
	return h.issue(ctx, claims)
}

func (h *OIDCHandler) issue(ctx context.Context, claims *OIDCClaims) (*auth.TokenResponse, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: ID token has no subject", auth.ErrInvalidToken)
	}

	tokenResponse, err := h.jwtManager.GenerateTokenResponse(ctx, auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: string(auth.PrincipalFor(auth.MethodOIDC, claims.Subject)),
		},
		AuthMethod: auth.MethodOIDC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT token: %w", err)
	}

	return tokenResponse, nil
}

// StartAuth initiates the OIDC authorization flow
func (h *OIDCHandler) StartAuth(_ context.Context) (string, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	nonce, err := generateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	h.mu.Lock()
	h.purgeExpiredLocked()
	h.sessions[state] = OIDCSession{Nonce: nonce, CreatedAt: h.now()}
	h.mu.Unlock()

	return h.validator.GetAuthorizationURL(state, nonce), nil
}

// HandleCallback completes a flow started by StartAuth. Each state can be
// used once.
func (h *OIDCHandler) HandleCallback(ctx context.Context, code, state string) (*auth.TokenResponse, error) {
	h.mu.Lock()
	session, exists := h.sessions[state]
	delete(h.sessions, state)
	h.mu.Unlock()

	if !exists {
		return nil, ErrInvalidState
	}
	if h.now().Sub(session.CreatedAt) > sessionTTL {
		return nil, ErrSessionExpired
	}

	idToken, err := h.validator.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	claims, err := h.validator.ValidateToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate OIDC token: %w", err)
	}
	if claims.Nonce != session.Nonce {
		return nil, ErrNonceMismatch
	}

	log.Printf("OIDC login completed for subject %s", claims.Subject)
	return h.issue(ctx, claims)
}

func (h *OIDCHandler) purgeExpiredLocked() {
	for state, session := range h.sessions {
		if h.now().Sub(session.CreatedAt) > sessionTTL {
			delete(h.sessions, state)
		}
	}
}

// generateRandomString generates a cryptographically secure random string
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}
