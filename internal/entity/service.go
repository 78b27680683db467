// AngelaMos | 2026
// service.go

package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/subscription"
)

type Service struct {
	repo          Repository
	subscriptions subscription.Repository
	now           func() time.Time
}

func NewService(repo Repository, subscriptions subscription.Repository) *Service {
	return &Service{
		repo:          repo,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// Get returns an entity visible to caller.
func (s *Service) Get(ctx context.Context, caller access.Identity, id string) (*Entity, error) {
	if err := access.RequireScope(caller, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateSubscription(
	ctx context.Context,
	caller access.Identity,
	id string,
	subscriptionID int,
) (*Entity, error) {
	if err := access.RequireRole(caller, access.PrivilegeAdmin); err != nil {
		return nil, err
	}
	if !access.CanManageEntity(caller, id) {
		return nil, fmt.Errorf("update subscription for %s: %w", id, core.ErrForbidden)
	}

	if _, err := subscription.RequireOffered(ctx, s.subscriptions, "subscription_id", subscriptionID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSubscription(ctx, id, subscriptionID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Deactivate soft deletes an entity. Repeated calls keep the first date.
func (s *Service) Deactivate(ctx context.Context, caller access.Identity, id string) (*Entity, error) {
	return s.setActive(ctx, caller, id, false)
}

func (s *Service) Reactivate(ctx context.Context, caller access.Identity, id string) (*Entity, error) {
	return s.setActive(ctx, caller, id, true)
}

func (s *Service) setActive(
	ctx context.Context,
	caller access.Identity,
	id string,
	active bool,
) (*Entity, error) {
	if err := access.RequireRole(caller, access.PrivilegeGlobal); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.IsActive() == active {
		return e, nil
	}

	var at *time.Time
	if !active {
		now := s.now().UTC()
		at = &now
	}

	if err := s.repo.SetInactiveDate(ctx, id, at); err != nil {
		return nil, err
	}
	e.InactiveDate = at

	return e, nil
}
