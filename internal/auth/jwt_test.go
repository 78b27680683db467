// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/config"
	"github.com/carterperez-dev/flightlog/internal/core"
)

func newTestJWTManager(t *testing.T, accessTTL time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:     filepath.Join(dir, "private.pem"),
		PublicKeyPath:      filepath.Join(dir, "public.pem"),
		AccessTokenExpire:  accessTTL,
		RefreshTokenExpire: time.Hour,
		Issuer:             "flightlog-test",
		Audience:           "flightlog-test",
	}
	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t, 15*time.Minute)

	token, expiresAt, err := m.CreateAccessToken(AccessTokenClaims{
		UserID:       "user-1",
		EntityID:     "entity-1",
		Privilege:    access.PrivilegeCFI,
		TokenVersion: 3,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "entity-1", claims.EntityID)
	assert.Equal(t, access.PrivilegeCFI, claims.Privilege)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.NotEmpty(t, claims.TokenID)
	assert.NotEmpty(t, m.GetKeyID())
}

func TestParseAccessTokenRejectsForeignSignature(t *testing.T) {
	issuer := newTestJWTManager(t, time.Minute)
	verifier := newTestJWTManager(t, time.Minute)

	token, _, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID:    "user-1",
		EntityID:  "entity-1",
		Privilege: access.PrivilegeStudent,
	})
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = issuer.ParseAccessToken(strings.TrimSuffix(token, token[len(token)-4:]) + "AAAA")
	require.Error(t, err)
}

func TestParseAccessTokenExpired(t *testing.T) {
	m := newTestJWTManager(t, -time.Minute)

	token, _, err := m.CreateAccessToken(AccessTokenClaims{
		UserID:    "user-1",
		EntityID:  "entity-1",
		Privilege: access.PrivilegeAdmin,
	})
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	require.Error(t, err)
}

func TestCreateRefreshTokenFamilies(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)

	fresh, err := m.CreateRefreshToken("")
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.FamilyID)
	assert.Equal(t, core.HashToken(fresh.Token), fresh.Hash)

	rotated, err := m.CreateRefreshToken(fresh.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, fresh.FamilyID, rotated.FamilyID)
	assert.NotEqual(t, fresh.Token, rotated.Token)
}
