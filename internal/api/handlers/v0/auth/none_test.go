package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0auth "github.com/qadesk/qadesk/internal/api/handlers/v0/auth"
	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/config"
)

const testSeed = "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"

func newJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(&config.Config{JWTPrivateKey: testSeed, JWTTokenTTL: time.Hour})
}

func TestNoneHandler_GetAnonymousToken(t *testing.T) {
	jwtManager := newJWTManager()
	handler := v0auth.NewNoneHandler(jwtManager)
	ctx := context.Background()

	first, err := handler.GetAnonymousToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.Greater(t, first.ExpiresAt, 0)
	assert.True(t, strings.HasPrefix(string(first.Principal), "anon:"))

	claims, err := jwtManager.ValidateToken(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.MethodAnonymous, claims.AuthMethod)
	assert.Equal(t, first.Principal, claims.Principal())

	// Every anonymous session is a distinct principal
	second, err := handler.GetAnonymousToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Principal, second.Principal)
}

func TestRegisterNoneEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		enabled        bool
		expectedStatus int
	}{
		{"enabled", true, http.StatusOK},
		{"disabled", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			api := humago.New(mux, huma.DefaultConfig("Test API", "1.0.0"))
			v0auth.RegisterNoneEndpoint(api, &config.Config{EnableAnonymousAuth: tt.enabled}, newJWTManager())

			req := httptest.NewRequest(http.MethodPost, "/v0/auth/none", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.enabled {
				assert.Contains(t, w.Body.String(), `"principal":"anon:`)
			}
		})
	}
}
