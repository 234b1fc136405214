package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/qadesk/qadesk/internal/model"
)

// ValidationError describes one invalid field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationErrors collects every invalid field of a record
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Unwrap lets callers match ValidationErrors against ErrInvalidRecord
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidRecord
}

// RecordValidator validates the input records accepted by the service layer
type RecordValidator struct {
	validate *validator.Validate
}

// NewRecordValidator creates a RecordValidator with the custom tags registered
func NewRecordValidator() *RecordValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		return model.Severity(fl.Field().String()).IsValid()
	})

	return &RecordValidator{validate: v}
}

// Validate checks obj against its struct tags
func (rv *RecordValidator) Validate(obj any) error {
	if err := rv.validate.Struct(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	validationErrors := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "severity":
			message = fmt.Sprintf("%s must be one of: low, medium, high, critical", err.Field())
		case "uuid":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
