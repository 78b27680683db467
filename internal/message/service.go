// AngelaMos | 2026
// service.go

package message

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
)

type Service struct {
	repo      Repository
	validator *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: core.NewValidator()}
}

// Submit stores a contact form message. Anyone may submit.
func (s *Service) Submit(ctx context.Context, req CreateMessageRequest) (*Message, error) {
	req.Normalize()
	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	m := &Message{
		ID:          uuid.New().String(),
		Type:        req.Type,
		OrgName:     req.OrgName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Body:        req.Message,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) List(ctx context.Context, caller access.Identity, unresolvedOnly bool) ([]Message, error) {
	if err := access.RequireRole(caller, access.PrivilegeGlobal); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, unresolvedOnly)
}

func (s *Service) Get(ctx context.Context, caller access.Identity, id string) (*Message, error) {
	if err := access.RequireRole(caller, access.PrivilegeGlobal); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Resolve(ctx context.Context, caller access.Identity, id string) error {
	if err := access.RequireRole(caller, access.PrivilegeGlobal); err != nil {
		return err
	}
	return s.repo.SetResolved(ctx, id, true)
}

func (s *Service) Delete(ctx context.Context, caller access.Identity, id string) error {
	if err := access.RequireRole(caller, access.PrivilegeGlobal); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
