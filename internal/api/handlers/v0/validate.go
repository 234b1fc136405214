package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/naming"
	"github.com/qadesk/qadesk/internal/validators"
)

// ValidateNameInput represents the input for name validation
type ValidateNameInput struct {
	Body struct {
		Name string `json:"name" doc:"Free-text application name" required:"false"`
	}
}

// ValidateURLInput represents the input for URL validation
type ValidateURLInput struct {
	Body struct {
		URL string `json:"url" doc:"Website URL as typed by the user" required:"false"`
	}
}

// RegisterValidateEndpoints registers the stateless validation endpoints.
// Both report invalid input in the body and answer 200.
func RegisterValidateEndpoints(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "validate-name",
		Method:      http.MethodPost,
		Path:        "/v0/validate/name",
		Summary:     "Normalize and validate an application name",
		Description: "Turn a free-text label into a subdomain-safe name and check it against the naming rules",
		Tags:        []string{"validation"},
	}, func(_ context.Context, input *ValidateNameInput) (*Response[naming.Result], error) {
		return &Response[naming.Result]{
			Body: naming.NormalizeAndValidate(input.Body.Name),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "validate-url",
		Method:      http.MethodPost,
		Path:        "/v0/validate/url",
		Summary:     "Validate and normalize a website URL",
		Description: "Check that a URL is an http(s) URL with a plausible host and return its canonical form",
		Tags:        []string{"validation"},
	}, func(_ context.Context, input *ValidateURLInput) (*Response[validators.URLResult], error) {
		return &Response[validators.URLResult]{
			Body: validators.ValidateAndNormalizeURL(input.Body.URL),
		}, nil
	})
}
