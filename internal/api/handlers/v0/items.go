package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/service"
)

// AddItemInput represents the input for adding a record to a website
type AddItemInput[I any] struct {
	AuthHeader
	WebsiteID string `path:"id" doc:"Website ID (UUID)" format:"uuid"`
	Body      I
}

// UpdateItemInput represents the input for replacing a record of a website
type UpdateItemInput[I any] struct {
	AuthHeader
	WebsiteID string `path:"id" doc:"Website ID (UUID)" format:"uuid"`
	ItemID    string `path:"itemId" doc:"Record ID (UUID)" format:"uuid"`
	Body      I
}

// DeleteItemInput represents the input for removing a record from a website
type DeleteItemInput struct {
	AuthHeader
	WebsiteID string `path:"id" doc:"Website ID (UUID)" format:"uuid"`
	ItemID    string `path:"itemId" doc:"Record ID (UUID)" format:"uuid"`
}

// itemEndpoints describes one kind of website record and the service
// operations behind it
type itemEndpoints[I, T any] struct {
	// e.g. "test case"
	noun string
	// path segment and operation ID suffix, e.g. "test-cases"
	segment string

	add    func(ctx context.Context, caller model.Principal, websiteID string, input I) (*T, error)
	update func(ctx context.Context, caller model.Principal, websiteID, itemID string, input I) (*T, error)
	remove func(ctx context.Context, caller model.Principal, websiteID, itemID string) error
}

// RegisterItemEndpoints registers add, update and delete endpoints for bugs,
// test cases and corner cases
func RegisterItemEndpoints(api huma.API, svc service.QAService, authn *Authenticator) {
	registerItemEndpoints(api, authn, itemEndpoints[model.BugInput, model.Bug]{
		noun: "bug", segment: "bugs",
		add: svc.AddBug, update: svc.UpdateBug, remove: svc.DeleteBug,
	})
	registerItemEndpoints(api, authn, itemEndpoints[model.TestCaseInput, model.TestCase]{
		noun: "test case", segment: "test-cases",
		add: svc.AddTestCase, update: svc.UpdateTestCase, remove: svc.DeleteTestCase,
	})
	registerItemEndpoints(api, authn, itemEndpoints[model.CornerCaseInput, model.CornerCase]{
		noun: "corner case", segment: "corner-cases",
		add: svc.AddCornerCase, update: svc.UpdateCornerCase, remove: svc.DeleteCornerCase,
	})
}

func registerItemEndpoints[I, T any](api huma.API, authn *Authenticator, e itemEndpoints[I, T]) {
	collection := "/v0/websites/{id}/" + e.segment
	item := collection + "/{itemId}"

	huma.Register(api, huma.Operation{
		OperationID:   "add-" + e.segment,
		Method:        http.MethodPost,
		Path:          collection,
		Summary:       "Add " + e.noun,
		Description:   "Add a " + e.noun + " to a website",
		Tags:          []string{e.segment},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *AddItemInput[I]) (*Response[T], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		created, err := e.add(ctx, caller, input.WebsiteID, input.Body)
		if err != nil {
			return nil, toHumaError(err, "Failed to add "+e.noun)
		}

		return &Response[T]{Body: *created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-" + e.segment,
		Method:      http.MethodPut,
		Path:        item,
		Summary:     "Update " + e.noun,
		Description: "Replace the editable fields of a " + e.noun,
		Tags:        []string{e.segment},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *UpdateItemInput[I]) (*Response[T], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		updated, err := e.update(ctx, caller, input.WebsiteID, input.ItemID, input.Body)
		if err != nil {
			return nil, toHumaError(err, "Failed to update "+e.noun)
		}

		return &Response[T]{Body: *updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-" + e.segment,
		Method:        http.MethodDelete,
		Path:          item,
		Summary:       "Delete " + e.noun,
		Description:   "Remove a " + e.noun + " from a website",
		Tags:          []string{e.segment},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *DeleteItemInput) (*struct{}, error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		if err := e.remove(ctx, caller, input.WebsiteID, input.ItemID); err != nil {
			return nil, toHumaError(err, "Failed to delete "+e.noun)
		}
		return nil, nil
	})
}
