// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// SignupRequest opens a new entity with its first admin. OrgName falls
// back to the admin's full name for solo instructors.
type SignupRequest struct {
	FirstName      string  `json:"first_name"      validate:"required,max=100"`
	LastName       string  `json:"last_name"       validate:"required,max=100"`
	Email          string  `json:"email"           validate:"required,email,max=255"`
	Password       string  `json:"password"        validate:"required,min=8,max=128"`
	OrgName        *string `json:"org_name"        validate:"omitempty,max=200"`
	Phone          *string `json:"phone"           validate:"omitempty,max=30"`
	SubscriptionID int     `json:"subscription_id" validate:"required,gt=0"`
}

func (r *SignupRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = core.NormalizeEmail(r.Email)
	r.OrgName = core.TrimToNull(r.OrgName)
	r.Phone = core.TrimToNull(r.Phone)
}

func (r *SignupRequest) EntityName() string {
	if r.OrgName != nil {
		return *r.OrgName
	}
	return r.FirstName + " " + r.LastName
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID        string           `json:"id"`
	EntityID  string           `json:"entity_id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Privilege access.Privilege `json:"privilege"`
}

type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}
