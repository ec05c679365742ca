// Package errors defines the error taxonomy shared by the transport and
// codec layers.
package errors

import (
	"fmt"
)

// StatusError reports a non-2xx HTTP response from the provider. The body is
// retained so callers can log what the endpoint actually returned instead of
// a failed parse of an error page.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// NewStatusError creates a StatusError for the given response.
func NewStatusError(statusCode int, url, body string) *StatusError {
	return &StatusError{StatusCode: statusCode, URL: url, Body: body}
}

// DecodeError reports a response body that could not be parsed in the
// expected wire format (malformed JSON, or an NVP pair missing its '=').
type DecodeError struct {
	Format string // "json" or "nvp"
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Format, e.Detail)
}

// ValidationError represents input validation errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
