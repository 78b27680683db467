// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
)

type contextKey string

const ClaimsKey contextKey = "jwt_claims"

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	TokenID      string
	UserID       string
	EntityID     string
	Privilege    access.Privilege
	TokenVersion int
	ExpiresAt    time.Time
}

func (c *AccessTokenClaims) Identity() access.Identity {
	return access.Identity{
		UserID:    c.UserID,
		EntityID:  c.EntityID,
		Privilege: c.Privilege,
	}
}

// Authenticator verifies the bearer token and attaches the caller's
// identity to the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, err)
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(
				core.TenantAttrs(claims.EntityID, claims.Privilege.String())...,
			)

			ctx := access.WithIdentity(r.Context(), claims.Identity())
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePrivilege rejects callers below minimum.
func RequirePrivilege(minimum access.Privilege) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := access.RequireRole(GetIdentity(r.Context()), minimum); err != nil {
				core.JSONError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetIdentity returns the authenticated caller, or the anonymous zero
// Identity.
func GetIdentity(ctx context.Context) access.Identity {
	id, _ := access.FromContext(ctx)
	return id
}

func GetUserID(ctx context.Context) string {
	return GetIdentity(ctx).UserID
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}
