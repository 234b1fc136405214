package v0

import (
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/auth"
	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/service"
)

// toHumaError maps service and database errors onto HTTP problems. action
// describes the failed operation, e.g. "Failed to get website".
func toHumaError(err error, action string) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrAuthRequired),
		errors.Is(err, auth.ErrInvalidToken):
		return huma.Error401Unauthorized("Authentication required")
	case errors.Is(err, service.ErrForbidden):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, database.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, database.ErrInvalidInput):
		return huma.Error400BadRequest(action, err)
	case errors.Is(err, database.ErrAlreadyExists), errors.Is(err, database.ErrConflict):
		return huma.Error409Conflict(action, err)
	default:
		log.Printf("%s: %v", action, err)
		return huma.Error500InternalServerError(action)
	}
}
