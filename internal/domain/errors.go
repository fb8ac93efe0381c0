package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated means no valid session reached the handler.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the caller is known but is not allowed to touch
	// the target appointment or message.
	ErrForbidden = errors.New("forbidden")

	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrUserNotFound        = errors.New("user not found")

	// ErrInvalidState rejects a transition that is illegal from the
	// appointment's current status. Never retried.
	ErrInvalidState = errors.New("invalid appointment state for this operation")

	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable wraps primary/replica connectivity failures.
	// Writes must not be retried by the server, the caller resubmits.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// HTTPStatus maps a core error to the status its handler should return.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAppointmentNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
