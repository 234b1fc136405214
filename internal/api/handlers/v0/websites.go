package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/service"
	"github.com/qadesk/qadesk/internal/telemetry"
)

// ListWebsitesInput represents the input for listing websites
type ListWebsitesInput struct {
	AuthHeader
	PageInput
}

// ListWebsitesBody represents the paginated website list response body
type ListWebsitesBody struct {
	Websites []*model.Website `json:"websites" doc:"Websites owned by the caller"`
	Metadata *Metadata        `json:"metadata,omitempty" doc:"Pagination metadata"`
}

// GenerateWebsiteInput represents the input for generating website test data
type GenerateWebsiteInput struct {
	AuthHeader
	Body model.GenerateInput
}

// WebsiteInput addresses a single website
type WebsiteInput struct {
	AuthHeader
	ID string `path:"id" doc:"Website ID (UUID)" format:"uuid"`
}

// RegisterWebsitesEndpoints registers the website endpoints
func RegisterWebsitesEndpoints(api huma.API, svc service.QAService, authn *Authenticator, metrics *telemetry.Metrics) {
	huma.Register(api, huma.Operation{
		OperationID: "list-websites",
		Method:      http.MethodGet,
		Path:        "/v0/websites",
		Summary:     "List websites",
		Description: "Get a paginated list of the websites owned by the caller",
		Tags:        []string{"websites"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *ListWebsitesInput) (*Response[ListWebsitesBody], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		websites, nextCursor, err := svc.ListWebsites(ctx, caller, input.Cursor, input.Limit)
		if err != nil {
			return nil, toHumaError(err, "Failed to list websites")
		}

		return &Response[ListWebsitesBody]{
			Body: ListWebsitesBody{
				Websites: websites,
				Metadata: newMetadata(nextCursor, len(websites)),
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "generate-website",
		Method:        http.MethodPost,
		Path:          "/v0/websites/generate",
		Summary:       "Generate website test data",
		Description:   "Validate a URL and create a website seeded with generated test cases, bugs and corner cases",
		Tags:          []string{"websites"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *GenerateWebsiteInput) (*Response[model.Website], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		website, err := svc.GenerateWebsiteTestingData(ctx, caller, input.Body)
		if err != nil {
			return nil, toHumaError(err, "Failed to generate website test data")
		}

		if metrics != nil {
			metrics.WebsitesGenerated.Add(ctx, 1)
		}

		return &Response[model.Website]{
			Body: *website,
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-website",
		Method:      http.MethodGet,
		Path:        "/v0/websites/{id}",
		Summary:     "Get website",
		Description: "Get a website with its test cases, bugs and corner cases",
		Tags:        []string{"websites"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *WebsiteInput) (*Response[model.Website], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		website, err := svc.GetWebsite(ctx, caller, input.ID)
		if err != nil {
			return nil, toHumaError(err, "Failed to get website")
		}

		return &Response[model.Website]{
			Body: *website,
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-website",
		Method:        http.MethodDelete,
		Path:          "/v0/websites/{id}",
		Summary:       "Delete website",
		Description:   "Delete a website together with its test runs",
		Tags:          []string{"websites"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *WebsiteInput) (*struct{}, error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		if err := svc.DeleteWebsite(ctx, caller, input.ID); err != nil {
			return nil, toHumaError(err, "Failed to delete website")
		}
		return nil, nil
	})
}
