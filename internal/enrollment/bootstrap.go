// AngelaMos | 2026
// bootstrap.go

package enrollment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/user"
)

const platformEntityName = "Platform Operations"

// EnsureGlobalOperator creates the platform entity and a global user for
// email unless that account already exists. It reports whether anything
// was created.
func (s *Service) EnsureGlobalOperator(ctx context.Context, email, password string) (bool, error) {
	email = core.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Privilege != access.PrivilegeGlobal {
			return false, fmt.Errorf("bootstrap %s: account exists without global privilege", email)
		}
		return false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	e := &entity.Entity{
		ID:   uuid.New().String(),
		Name: platformEntityName,
	}
	operator := &user.User{
		ID:           uuid.New().String(),
		EntityID:     e.ID,
		Privilege:    access.PrivilegeGlobal,
		FirstName:    "Global",
		LastName:     "Operator",
		Email:        email,
		PasswordHash: hash,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.entities.Create(ctx, e); err != nil {
			return err
		}
		return s.users.Create(ctx, operator)
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap %s: %w", email, err)
	}

	s.metrics.UserCreated(operator.Privilege.String())

	return true, nil
}
