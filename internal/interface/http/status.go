package handlers

import (
	"errors"
	"net/http"

	"github.com/quickfit/quickfit-server/internal/application"
	"github.com/quickfit/quickfit-server/internal/domain"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvariantViolation),
		errors.Is(err, application.ErrUploadsPending),
		errors.Is(err, application.ErrStaleGeneration):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNetworkFailure), errors.Is(err, domain.ErrDecodingFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
