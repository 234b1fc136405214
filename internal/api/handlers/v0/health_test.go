package v0_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"

	v0 "github.com/qadesk/qadesk/internal/api/handlers/v0"
	"github.com/qadesk/qadesk/internal/config"
)

func TestHealthEndpoint(t *testing.T) {
	testCases := []struct {
		name         string
		config       *config.Config
		expectedBody v0.HealthBody
	}{
		{
			name:   "reports version and available login methods",
			config: &config.Config{Version: "1.2.3", EnableAnonymousAuth: true, OIDCEnabled: true},
			expectedBody: v0.HealthBody{
				Status:        "ok",
				Version:       "1.2.3",
				AnonymousAuth: true,
				OIDC:          true,
			},
		},
		{
			name:   "no login methods",
			config: &config.Config{Version: "dev"},
			expectedBody: v0.HealthBody{
				Status:  "ok",
				Version: "dev",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			api := humago.New(mux, huma.DefaultConfig("Test API", "1.0.0"))

			v0.RegisterHealthEndpoint(api, tc.config, nil)

			req := httptest.NewRequest(http.MethodGet, "/v0/health", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.expectedBody, decode[v0.HealthBody](t, w))
		})
	}
}
