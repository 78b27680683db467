// AngelaMos | 2026
// jwt.go

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/config"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/middleware"
)

const (
	claimEntityID     = "entity_id"
	claimPrivilege    = "privilege"
	claimTokenVersion = "token_version"
	claimType         = "type"
	tokenTypeAccess   = "access"

	jwksMaxAge = "public, max-age=3600"
)

// JWTManager signs ES256 access tokens and publishes the verifying key
// as a JWKS document.
type JWTManager struct {
	signing   jwk.Key
	verifying jwk.Key
	keySet    jwk.Set
	keyID     string
	config    config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	raw, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	signing, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	keyID := newKeyID()
	if err := stamp(signing, keyID); err != nil {
		return nil, err
	}

	verifying, err := signing.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := verifying.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	keySet := jwk.NewSet()
	if err := keySet.AddKey(verifying); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &JWTManager{
		signing:   signing,
		verifying: verifying,
		keySet:    keySet,
		keyID:     keyID,
		config:    cfg,
	}, nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM files. The
// private key is readable only by its owner.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(ecKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}
	if err := stamp(private, newKeyID()); err != nil {
		return err
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	outputs := []struct {
		key  jwk.Key
		path string
		mode os.FileMode
	}{
		{key: private, path: privateKeyPath, mode: 0o600},
		{key: public, path: publicKeyPath, mode: 0o644},
	}
	for _, out := range outputs {
		pem, err := jwk.Pem(out.key)
		if err != nil {
			return fmt.Errorf("encode %s: %w", out.path, err)
		}
		if err := os.WriteFile(out.path, pem, out.mode); err != nil {
			return fmt.Errorf("write %s: %w", out.path, err)
		}
	}
	return nil
}

func newKeyID() string {
	return uuid.New().String()[:8]
}

func stamp(key jwk.Key, keyID string) error {
	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("set algorithm: %w", err)
	}
	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}
	return nil
}

func (m *JWTManager) GetKeyID() string {
	return m.keyID
}

func (m *JWTManager) AccessTTL() time.Duration {
	return m.config.AccessTokenExpire
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", jwksMaxAge)

		if err := json.NewEncoder(w).Encode(m.keySet); err != nil {
			core.InternalServerError(w, fmt.Errorf("encode jwks: %w", err))
		}
	}
}

// AccessTokenClaims is what gets signed into an access token.
type AccessTokenClaims struct {
	UserID       string
	EntityID     string
	Privilege    access.Privilege
	TokenVersion int
}

func (m *JWTManager) CreateAccessToken(claims AccessTokenClaims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimType, tokenTypeAccess).
		Claim(claimEntityID, claims.EntityID).
		Claim(claimPrivilege, claims.Privilege.String()).
		Claim(claimTokenVersion, claims.TokenVersion).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signing))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return string(signed), expiresAt, nil
}

// ParseAccessToken checks signature, issuer, audience and lifetime and
// decodes the identity claims. Revocation is the caller's concern.
func (m *JWTManager) ParseAccessToken(raw string) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.ES256(), m.verifying),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if expired(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	invalid := func(what string) error {
		return fmt.Errorf("verify token: %s: %w", what, core.ErrTokenInvalid)
	}

	if typ, _ := stringClaim(token, claimType); typ != tokenTypeAccess {
		return nil, invalid("wrong token type")
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, invalid("missing subject")
	}

	entityID, ok := stringClaim(token, claimEntityID)
	if !ok || entityID == "" {
		return nil, invalid("missing " + claimEntityID)
	}

	name, ok := stringClaim(token, claimPrivilege)
	if !ok {
		return nil, invalid("missing " + claimPrivilege)
	}
	privilege, err := access.ParsePrivilege(name)
	if err != nil {
		return nil, invalid(err.Error())
	}

	// Numeric claims come back from JSON as float64.
	var version float64
	if err := token.Get(claimTokenVersion, &version); err != nil {
		return nil, invalid("missing " + claimTokenVersion)
	}

	jti, _ := token.JwtID()
	expiresAt, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		TokenID:      jti,
		UserID:       subject,
		EntityID:     entityID,
		Privilege:    privilege,
		TokenVersion: int(version),
		ExpiresAt:    expiresAt,
	}, nil
}

func stringClaim(token jwt.Token, name string) (string, bool) {
	var v string
	if err := token.Get(name, &v); err != nil {
		return "", false
	}
	return v, true
}

func expired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken mints an opaque refresh token. An empty familyID
// starts a new rotation family.
func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.New().String()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: time.Now().Add(m.config.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
