package models

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these onto HTTP statuses.
var (
	ErrValidation          = errors.New("validation error")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrGeocodeFailure      = errors.New("geocode failure")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrFeatureUnavailable  = errors.New("feature unavailable")
)

// AppError carries a client-safe message alongside its kind.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewError(kind error, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func WrapError(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func ValidationError(format string, args ...any) *AppError {
	return NewError(ErrValidation, fmt.Sprintf(format, args...))
}

// PublicMessage returns the message safe to show a client, or "" when err
// carries none.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
