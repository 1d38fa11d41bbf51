package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// BindErrorMessage turns a form-binding error into a message suitable for the
// page. Field-level validation failures name the first offending field;
// anything else falls back to the caller's generic message.
func BindErrorMessage(err error, fallback string) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fallback
	}
	return formatFieldError(fieldErrs[0])
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required."
	case "email":
		return e.Field() + " must be a valid email address."
	case "min":
		return e.Field() + " must be at least " + e.Param() + "."
	case "max":
		return e.Field() + " must be at most " + e.Param() + "."
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters."
	case "oneof":
		return e.Field() + " must be one of: " + e.Param() + "."
	default:
		return e.Field() + " is invalid."
	}
}
