// Package common defines shared sentinel errors and helpers used across the
// backend. Callers match sentinels with errors.Is; ValidationError is the one
// typed error because it carries the failing field.
package common

import (
	"errors"
	"net/http"
)

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrConflict     = errors.New("user exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrActivation   = errors.New("could not activate account")
	ErrInternal     = errors.New("internal error")

	// Auth errors (bad signature, malformed structure, or expired).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError reports the first registration field that failed validation.
// The message is stable and safe to show to callers.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// HTTPStatus maps a domain error to the status code the external surface
// reports. Unknown errors map to 500 so collaborator failures never leak
// transport detail.
func HTTPStatus(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrActivation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the caller-visible message for an error. Anything not
// recognized collapses to the generic internal-error text so stack traces and
// collaborator errors stay out of responses.
func PublicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return ErrInternal.Error()
	default:
		return err.Error()
	}
}
