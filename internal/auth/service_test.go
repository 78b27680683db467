// AngelaMos | 2026
// service_test.go

package auth_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/config"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/enrollment"
	"github.com/carterperez-dev/flightlog/internal/memstore"
	"github.com/carterperez-dev/flightlog/internal/user"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (plainHasher) Verify(password, digest string) (bool, string, error) {
	return digest == "plain:"+password, "", nil
}

type fixture struct {
	svc   *auth.Service
	store *memstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:     filepath.Join(dir, "private.pem"),
		PublicKeyPath:      filepath.Join(dir, "public.pem"),
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "flightlog-test",
		Audience:           "flightlog-test",
	}
	require.NoError(t, auth.GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))
	jwtManager, err := auth.NewJWTManager(cfg)
	require.NoError(t, err)

	store := memstore.New()
	enroll := enrollment.NewService(enrollment.Deps{
		Tx:            store,
		Entities:      store.Entities(),
		Users:         store.Users(),
		Ratings:       store.Ratings(),
		Subscriptions: store.Subscriptions(),
		Syllabi:       store.Syllabi(),
		Progress:      store.Progress(),
		Hasher:        plainHasher{},
	})

	svc := auth.NewService(
		store.RefreshTokens(),
		jwtManager,
		user.NewService(store.Users()),
		enroll,
		plainHasher{},
		nil,
	)

	return &fixture{svc: svc, store: store}
}

func (f *fixture) signup(t *testing.T) *auth.AuthResponse {
	t.Helper()

	resp, err := f.svc.Signup(context.Background(), auth.SignupRequest{
		FirstName:      "Ada",
		LastName:       "Owner",
		Email:          "owner@example.com",
		Password:       "correct-horse",
		SubscriptionID: 2,
	}, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, f *fixture, password string) (*auth.AuthResponse, error) {
	t.Helper()
	return f.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "OWNER@example.com",
		Password: password,
	}, "test-agent", "127.0.0.1")
}

func TestSignupIssuesAdminTokens(t *testing.T) {
	f := newFixture(t)

	resp := f.signup(t)
	assert.Equal(t, access.PrivilegeAdmin, resp.User.Privilege)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.Equal(t, 900, resp.Tokens.ExpiresIn)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, resp.User.EntityID, claims.EntityID)
	assert.Equal(t, access.PrivilegeAdmin, claims.Privilege)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.signup(t)

	resp, err := login(t, f, "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	_, err = login(t, f, "wrong-horse")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	}, "", "")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshRotationAndReuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.signup(t)

	second, err := f.svc.Refresh(ctx, first.Tokens.RefreshToken, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err = f.svc.Refresh(ctx, first.Tokens.RefreshToken, "attacker", "10.0.0.9")
	require.ErrorIs(t, err, auth.ErrTokenReuse)

	_, err = f.svc.Refresh(ctx, second.Tokens.RefreshToken, "test-agent", "127.0.0.1")
	require.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, "not-a-token", "", "")
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogoutAllRevokesAccessTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.signup(t)

	require.NoError(t, f.svc.LogoutAll(ctx, resp.User.ID))

	_, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.ErrorIs(t, err, core.ErrTokenRevoked)

	sessions, err := f.svc.GetActiveSessions(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestInactiveUserIsLockedOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.signup(t)

	now := time.Now().UTC()
	require.NoError(t, f.store.Users().SetInactiveDate(ctx, resp.User.ID, &now))

	_, err := login(t, f, "correct-horse")
	require.ErrorIs(t, err, auth.ErrAccountInactive)

	_, err = f.svc.Refresh(ctx, resp.Tokens.RefreshToken, "", "")
	require.ErrorIs(t, err, auth.ErrAccountInactive)

	_, err = f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.signup(t)

	err := f.svc.ChangePassword(ctx, resp.User.ID, "wrong-horse", "new-password")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	require.NoError(t, f.svc.ChangePassword(ctx, resp.User.ID, "correct-horse", "new-password"))

	_, err = login(t, f, "correct-horse")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = login(t, f, "new-password")
	require.NoError(t, err)
}

func TestRevokeSessionOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.signup(t)

	sessions, err := f.svc.GetActiveSessions(ctx, resp.User.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	err = f.svc.RevokeSession(ctx, "someone-else", sessions[0].ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, f.svc.RevokeSession(ctx, resp.User.ID, sessions[0].ID))

	sessions, err = f.svc.GetActiveSessions(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
