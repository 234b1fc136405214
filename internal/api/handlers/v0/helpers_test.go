package v0_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	v0 "github.com/qadesk/qadesk/internal/api/handlers/v0"
	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/model"
)

const (
	testSeed = "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"

	alice model.Principal = "oidc:alice"

	websiteID  = "7f9c2a4e-1c2b-4d3e-9f80-0a1b2c3d4e5f"
	itemID     = "2b8e6f1a-3c4d-4e5f-8a9b-0c1d2e3f4a5b"
	runID      = "c4d5e6f7-a8b9-4c0d-9e1f-2a3b4c5d6e7f"
	testCaseID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

// testEnv serves the caller-facing endpoints over a mocked service
type testEnv struct {
	mux        *http.ServeMux
	svc        *MockQAService
	jwtManager *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jwtManager := auth.NewJWTManager(&config.Config{JWTPrivateKey: testSeed, JWTTokenTTL: time.Hour})
	authn := v0.NewAuthenticator(jwtManager)

	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("Test API", "1.0.0"))

	svc := &MockQAService{}
	v0.RegisterWebsitesEndpoints(api, svc, authn, nil)
	v0.RegisterItemEndpoints(api, svc, authn)
	v0.RegisterUserEndpoints(api, svc, authn)
	v0.RegisterTestRunEndpoints(api, svc, authn, nil)

	t.Cleanup(func() { svc.AssertExpectations(t) })

	return &testEnv{mux: mux, svc: svc, jwtManager: jwtManager}
}

// bearer returns an Authorization header value for principal
func (e *testEnv) bearer(t *testing.T, principal model.Principal) string {
	t.Helper()

	resp, err := e.jwtManager.GenerateTokenResponse(context.Background(), auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: string(principal)},
		AuthMethod:       auth.MethodOIDC,
	})
	require.NoError(t, err)
	return "Bearer " + resp.Token
}

// do sends a request with an optional JSON body and Authorization header
func (e *testEnv) do(t *testing.T, method, path, authorization string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
