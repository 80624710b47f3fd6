package controller

import (
	"errors"
	"net/http"

	"github.com/shayanv/formboard/internal/apperror"
)

// StatusFromError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy is an internal error.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrCapabilityUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
