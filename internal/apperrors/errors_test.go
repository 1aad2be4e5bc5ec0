package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapMatchesSentinels(t *testing.T) {
	assert.True(t, errors.Is(NewNotFoundError("account 1 not found"), ErrNotFound))
	assert.True(t, errors.Is(NewValidationError("amount must be positive"), ErrValidation))
	assert.True(t, errors.Is(NewAppError(http.StatusInternalServerError, "failed to commit", nil), ErrInternal))

	cause := errors.New("connection reset")
	wrapped := NewAppError(http.StatusInternalServerError, "failed to begin transaction", cause)
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, "failed to begin transaction: connection reset", wrapped.Error())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: amount must be positive", ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("account a-1: %w", ErrNotFound), http.StatusNotFound},
		{"duplicate", ErrDuplicate, http.StatusConflict},
		{"conflict", ErrConflict, http.StatusConflict},
		{"app error code wins", NewAppError(http.StatusServiceUnavailable, "store unavailable", errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}
