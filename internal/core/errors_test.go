// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get user: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"duplicate", fmt.Errorf("create: %w", DuplicateError("email")), http.StatusConflict, "DUPLICATE"},
		{"duplicate sentinel", ErrDuplicateKey, http.StatusConflict, "CONFLICT"},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{"token expired", ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"token revoked", ErrTokenRevoked, http.StatusUnauthorized, "TOKEN_REVOKED"},
		{"token invalid", ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"validation", NewValidationError(FieldError{Field: "email", Message: "is required"}), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Add("first_name", "is required")
	err := fmt.Errorf("create user: %w", verr.OrNil())

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "create user: validation failed: first_name: is required", err.Error())

	var nilErr *ValidationError
	assert.NoError(t, nilErr.OrNil())
}

func TestJSONErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestJSONErrorCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, NewValidationError(FieldError{Field: "email", Message: "must be a valid email address"}))

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, []FieldError{{Field: "email", Message: "must be a valid email address"}}, body.Error.Fields)
}
