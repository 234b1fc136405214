package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/service"
)

// CallerInput carries only the caller's credentials
type CallerInput struct {
	AuthHeader
}

// ProfileBody wraps the caller's profile, which is null until first saved
type ProfileBody struct {
	Profile *model.UserProfile `json:"profile" doc:"Saved profile, or null"`
}

// SaveProfileInput represents the input for saving the caller's profile
type SaveProfileInput struct {
	AuthHeader
	Body model.UserProfile
}

// UserInput addresses another principal
type UserInput struct {
	AuthHeader
	Principal string `path:"principal" doc:"Principal, e.g. oidc:1234"`
}

// RoleBody represents the caller's access level
type RoleBody struct {
	Role    model.UserRole `json:"role" enum:"admin,user,guest" doc:"Access level"`
	IsAdmin bool           `json:"is_admin"`
}

// AssignRoleInput represents the input for assigning a role
type AssignRoleInput struct {
	AuthHeader
	Principal string `path:"principal" doc:"Principal receiving the role"`
	Body      struct {
		Role model.UserRole `json:"role" enum:"admin,user,guest" doc:"Role to assign"`
	}
}

// RegisterUserEndpoints registers the profile and role endpoints
func RegisterUserEndpoints(api huma.API, svc service.QAService, authn *Authenticator) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/v0/profile",
		Summary:     "Get own profile",
		Tags:        []string{"users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *CallerInput) (*Response[ProfileBody], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		profile, err := svc.GetCallerUserProfile(ctx, caller)
		if err != nil {
			return nil, toHumaError(err, "Failed to get profile")
		}

		return &Response[ProfileBody]{Body: ProfileBody{Profile: profile}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-profile",
		Method:      http.MethodPut,
		Path:        "/v0/profile",
		Summary:     "Save own profile",
		Tags:        []string{"users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *SaveProfileInput) (*Response[ProfileBody], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		if err := svc.SaveCallerUserProfile(ctx, caller, input.Body); err != nil {
			return nil, toHumaError(err, "Failed to save profile")
		}

		profile, err := svc.GetCallerUserProfile(ctx, caller)
		if err != nil {
			return nil, toHumaError(err, "Failed to get profile")
		}

		return &Response[ProfileBody]{Body: ProfileBody{Profile: profile}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user-profile",
		Method:      http.MethodGet,
		Path:        "/v0/users/{principal}/profile",
		Summary:     "Get a user's profile",
		Description: "Get the profile of a principal. Only the principal itself and admins may read it.",
		Tags:        []string{"users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *UserInput) (*Response[model.UserProfile], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		profile, err := svc.GetUserProfile(ctx, caller, model.Principal(input.Principal))
		if err != nil {
			return nil, toHumaError(err, "Failed to get profile")
		}
		if profile == nil {
			return nil, huma.Error404NotFound("Profile not found")
		}

		return &Response[model.UserProfile]{Body: *profile}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-role",
		Method:      http.MethodGet,
		Path:        "/v0/role",
		Summary:     "Get own role",
		Description: "Get the caller's access level. Callers without a session are guests.",
		Tags:        []string{"users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *CallerInput) (*Response[RoleBody], error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		role, err := svc.GetCallerUserRole(ctx, caller)
		if err != nil {
			return nil, toHumaError(err, "Failed to get role")
		}

		isAdmin, err := svc.IsCallerAdmin(ctx, caller)
		if err != nil {
			return nil, toHumaError(err, "Failed to get role")
		}

		return &Response[RoleBody]{
			Body: RoleBody{Role: role, IsAdmin: isAdmin},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "assign-role",
		Method:        http.MethodPut,
		Path:          "/v0/users/{principal}/role",
		Summary:       "Assign a role",
		Description:   "Set the access level of a principal (admin only)",
		Tags:          []string{"users", "admin"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *AssignRoleInput) (*struct{}, error) {
		caller, err := authn.Caller(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		if err := svc.AssignCallerUserRole(ctx, caller, model.Principal(input.Principal), input.Body.Role); err != nil {
			return nil, toHumaError(err, "Failed to assign role")
		}
		return nil, nil
	})
}
