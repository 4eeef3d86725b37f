// Package validator translates request binding failures into per-field
// errors so API clients see which fields to fix rather than a single
// opaque message.
package validator

import (
	"errors"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError is the field/message shape shared by all error responses.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Fields flattens a validation error into per-field messages. Errors that
// are not validation failures (malformed JSON, type mismatches) yield nil
// so callers fall back to the raw error message.
func Fields(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   jsonName(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "value is not in the allowed set"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}

// jsonName lowercases the leading rune of a struct field name, matching the
// camelCase JSON tags used throughout the transport DTOs.
func jsonName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
