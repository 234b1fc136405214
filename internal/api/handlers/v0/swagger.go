package v0

import (
	"net/http"

	_ "github.com/swaggo/files"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SwaggerHandler returns a handler that serves the Swagger UI over the
// OpenAPI document at specURL
func SwaggerHandler(specURL string) http.HandlerFunc {
	handler := httpSwagger.Handler(
		httpSwagger.URL(specURL),
		httpSwagger.DeepLinking(true),
	)

	return func(w http.ResponseWriter, r *http.Request) {
		// When accessed directly, redirect to the UI path
		if r.URL.Path == "/v0/swagger" {
			http.Redirect(w, r, "/v0/swagger/", http.StatusFound)
			return
		}

		handler.ServeHTTP(w, r)
	}
}
