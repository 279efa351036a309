package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		want    int
	}{
		{"conflict", NewConflictError("username is already taken", nil), http.StatusConflict},
		{"auth", NewAuthError("invalid username or password", nil), http.StatusUnauthorized},
		{"unauthorized", NewUnauthorizedError("wrong owner", nil), http.StatusForbidden},
		{"not found", NewNotFoundError("feedback 7 not found", nil), http.StatusNotFound},
		{"validation", NewValidationError("title required", nil), http.StatusBadRequest},
		{"bad request", NewBadRequestError("bad form", nil), http.StatusBadRequest},
		{"database", NewDatabaseError("query failed", nil), http.StatusInternalServerError},
		{"config", NewConfigError("missing secret", nil), http.StatusInternalServerError},
		{"migration", NewMigrationError("migrate failed", nil), http.StatusInternalServerError},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"unknown", NewAppError(UnknownError, "??", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewDatabaseError("failed to get user", underlying)

	assert.Equal(t, "failed to get user: connection refused", err.Error())
	assert.Equal(t, underlying, errors.Unwrap(err))

	bare := NewNotFoundError("user 'alice' not found", nil)
	assert.Equal(t, "user 'alice' not found", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}

func TestTypeHelpersSeeThroughWrapping(t *testing.T) {
	err := NewNotFoundError("feedback 3 not found", nil)
	wrapped := fmt.Errorf("loading record: %w", err)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsAuthError(wrapped))
	assert.False(t, IsUnauthorizedError(wrapped))
	assert.False(t, IsConflictError(wrapped))
	assert.False(t, IsValidationError(wrapped))
}

func TestFromError(t *testing.T) {
	appErr, ok := FromError(NewConflictError("email is already registered", nil))
	require.True(t, ok)
	assert.Equal(t, ConflictError, appErr.Type)

	_, ok = FromError(errors.New("plain error"))
	assert.False(t, ok)

	_, ok = FromError(nil)
	assert.False(t, ok)

	// Wrapped AppErrors are still found.
	wrapped := fmt.Errorf("outer: %w", NewAuthError("authentication required", nil))
	appErr, ok = FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, AuthError, appErr.Type)
}
