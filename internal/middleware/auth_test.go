// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
)

type stubVerifier map[string]*AccessTokenClaims

func (v stubVerifier) VerifyAccessToken(_ context.Context, token string) (*AccessTokenClaims, error) {
	if token == "expired" {
		return nil, core.ErrTokenExpired
	}
	claims, ok := v[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	return claims, nil
}

func echoIdentity(t *testing.T, got *access.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	verifier := stubVerifier{
		"cfi-token": {UserID: "u1", EntityID: "e1", Privilege: access.PrivilegeCFI},
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid bearer", header: "Bearer cfi-token", status: http.StatusOK},
		{name: "case insensitive scheme", header: "bearer cfi-token", status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic cfi-token", status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer expired", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got access.Identity
			h := Authenticator(verifier)(echoIdentity(t, &got))

			req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, access.Identity{UserID: "u1", EntityID: "e1", Privilege: access.PrivilegeCFI}, got)
			}
		})
	}
}

func TestExpiredTokenCode(t *testing.T) {
	h := Authenticator(stubVerifier{})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestRequirePrivilege(t *testing.T) {
	tests := []struct {
		name   string
		caller access.Identity
		status int
	}{
		{name: "global", caller: access.Identity{UserID: "g", EntityID: "e", Privilege: access.PrivilegeGlobal}, status: http.StatusOK},
		{name: "admin", caller: access.Identity{UserID: "a", EntityID: "e", Privilege: access.PrivilegeAdmin}, status: http.StatusOK},
		{name: "cfi", caller: access.Identity{UserID: "c", EntityID: "e", Privilege: access.PrivilegeCFI}, status: http.StatusForbidden},
		{name: "anonymous", caller: access.Identity{}, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequirePrivilege(access.PrivilegeAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(access.WithIdentity(req.Context(), tt.caller))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
