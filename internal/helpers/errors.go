package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/eventspark/internal/models"
)

// StatusFor maps an error's kind onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrGeocodeFailure):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrFeatureUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage is the message shown to clients; unclassified errors never
// leak their text.
func ClientMessage(err error) string {
	status := StatusFor(err)
	if msg := models.PublicMessage(err); msg != "" {
		return msg
	}
	if status == http.StatusInternalServerError {
		return "Internal server error"
	}
	return http.StatusText(status)
}

// ValidationFailure converts a binding or struct validation failure into a
// validation error with a readable message.
func ValidationFailure(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.WrapError(models.ErrValidation, "Invalid request payload", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return models.NewError(models.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "latitude", "longitude":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
