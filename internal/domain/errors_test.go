package domain

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrAppointmentNotFound, http.StatusNotFound},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrInvalidState, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{ErrStoreUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("oops"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, HTTPStatus(tt.err))
			// Wrapping must not change the mapping.
			require.Equal(t, tt.want, HTTPStatus(fmt.Errorf("context: %w", tt.err)))
		})
	}
}
