// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return ToUserInfo(user), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return ToUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// GetProfile returns a user with ratings when caller may view it.
func (s *Service) GetProfile(
	ctx context.Context,
	caller access.Identity,
	id string,
) (*User, error) {
	if caller.IsAnonymous() {
		return nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanViewUser(caller, user.ID, user.EntityID) {
		return nil, fmt.Errorf("get profile %s: %w", id, core.ErrForbidden)
	}

	ratings, err := s.repo.ListRatings(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Ratings = ratings

	return user, nil
}

func (s *Service) GetMe(ctx context.Context, caller access.Identity) (*User, error) {
	return s.GetProfile(ctx, caller, caller.UserID)
}

// ToUserInfo projects u onto the fields authentication reads.
func ToUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		EntityID:     u.EntityID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Privilege:    u.Privilege,
		Active:       u.IsActive(),
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
