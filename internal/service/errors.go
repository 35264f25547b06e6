package service

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrExternalAppointment is returned when a mutation targets a calendar
	// entry owned by the external calendar provider.
	ErrExternalAppointment = errors.New("calendly appointments are read-only")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// ValidationError reports rejected input, keyed by JSON field name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// validationFailed converts ozzo validation errors into a ValidationError.
// Internal rule failures are passed through unchanged.
func validationFailed(err error) error {
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		fields := make(map[string]string, len(errs))
		for field, fieldErr := range errs {
			fields[field] = fieldErr.Error()
		}
		return &ValidationError{Message: "validation failed", Fields: fields}
	}
	return &ValidationError{Message: err.Error()}
}

func invalidField(field, message string) error {
	return &ValidationError{Message: "validation failed", Fields: map[string]string{field: message}}
}
