// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
)

// RefreshToken is one login session. Tokens rotate on every refresh and
// share a FamilyID so that replaying a used token revokes the whole chain.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (t *RefreshToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActiveAt reports whether the token can still be exchanged at now.
func (t *RefreshToken) IsActiveAt(now time.Time) bool {
	return !t.IsExpiredAt(now) && !t.IsRevoked() && !t.IsUsed
}

func (t *RefreshToken) Session() SessionInfo {
	return SessionInfo{
		ID:        t.ID,
		UserAgent: t.UserAgent,
		IPAddress: t.IPAddress,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

// UserInfo is the slice of a user account that authentication needs.
type UserInfo struct {
	ID           string
	EntityID     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Privilege    access.Privilege
	Active       bool
	TokenVersion int
}

func (u *UserInfo) Response() UserResponse {
	return UserResponse{
		ID:        u.ID,
		EntityID:  u.EntityID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Privilege: u.Privilege,
	}
}
