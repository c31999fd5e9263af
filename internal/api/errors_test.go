package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/service/auth"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", auth.ErrAccountDisabled, http.StatusUnauthorized},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest},
		{"invalid status", domain.ErrInvalidTaskStatus, http.StatusBadRequest},
		{"wrapped task not found", fmt.Errorf("lookup: %w", store.ErrTaskNotFound), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	// Validation errors surface their field-level message
	ve := domain.NewValidationError("date", "must be in YYYY-MM-DD format", domain.ErrInvalidDate)
	assert.Equal(t, "Invalid date: must be in YYYY-MM-DD format", GetSafeErrorMessage(ve))

	// Credential failures stay generic
	assert.Equal(t, "Invalid credentials", GetSafeErrorMessage(auth.ErrInvalidCredentials))

	// Unknown errors never leak their text
	raw := errors.New("pq: duplicate key value violates unique constraint users_email_unique_idx")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(raw))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'RegisterRequest.Password' Error:Field validation for 'Password' failed on the 'min' tag")
	assert.Equal(t, "Invalid Password: too short", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
