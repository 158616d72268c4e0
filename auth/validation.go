package auth

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// FieldError is one failing field in a validation verdict. Responses
// enumerate every failing field at once instead of stopping at the
// first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors flattens an ozzo validation error into a
// stable, field-sorted list.
func FormatValidationErrors(err error) []FieldError {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]FieldError, 0, len(verrs))
	for _, field := range fields {
		out = append(out, FieldError{Field: field, Message: verrs[field].Error()})
	}
	return out
}

// AsValidationError wraps an ozzo verdict into a rich error carrying
// the per-field messages, so the boundary can render them as data.
func AsValidationError(err error) error {
	if err == nil {
		return nil
	}

	return errors.New("validation failed", errors.CategoryValidation).
		WithTextCode(TextCodeValidationFailed).
		WithMetadata(map[string]any{
			"fields": FormatValidationErrors(err),
		})
}
