// AngelaMos | 2026
// tokens.go

package memstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/core"
)

type tokenRepo struct {
	s *Store
}

func (r *tokenRepo) Create(ctx context.Context, token *auth.RefreshToken) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.tokens[token.ID]; ok {
		return fmt.Errorf("create refresh token: %w", core.ErrDuplicateKey)
	}

	token.CreatedAt = r.s.now()
	r.s.data.tokens[token.ID] = *token

	return nil
}

func (r *tokenRepo) FindByHash(_ context.Context, tokenHash string) (*auth.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.data.tokens {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("find refresh token by token_hash: %w", core.ErrNotFound)
}

func (r *tokenRepo) FindByID(_ context.Context, id string) (*auth.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.data.tokens[id]
	if !ok {
		return nil, fmt.Errorf("find refresh token by id: %w", core.ErrNotFound)
	}

	return &t, nil
}

func (r *tokenRepo) MarkAsUsed(ctx context.Context, id, replacedByID string) error {
	defer r.s.lock(ctx)()

	t, ok := r.s.data.tokens[id]
	if !ok || t.IsUsed {
		return fmt.Errorf("mark refresh token as used: %w", core.ErrNotFound)
	}

	now := r.s.now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &replacedByID
	r.s.data.tokens[id] = t

	return nil
}

func (r *tokenRepo) RevokeByID(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	t, ok := r.s.data.tokens[id]
	if !ok || t.IsRevoked() {
		return fmt.Errorf("revoke refresh token: %w", core.ErrNotFound)
	}

	now := r.s.now()
	t.RevokedAt = &now
	r.s.data.tokens[id] = t

	return nil
}

func (r *tokenRepo) RevokeByFamilyID(ctx context.Context, familyID string) error {
	r.revokeWhere(ctx, func(t auth.RefreshToken) bool { return t.FamilyID == familyID })
	return nil
}

func (r *tokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	r.revokeWhere(ctx, func(t auth.RefreshToken) bool { return t.UserID == userID })
	return nil
}

func (r *tokenRepo) GetActiveSessionsForUser(_ context.Context, userID string) ([]auth.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	now := r.s.now()
	tokens := []auth.RefreshToken{}
	for _, t := range r.s.data.tokens {
		if t.UserID == userID && t.IsActiveAt(now) {
			tokens = append(tokens, t)
		}
	}

	slices.SortFunc(tokens, func(a, b auth.RefreshToken) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return tokens, nil
}

func (r *tokenRepo) revokeWhere(ctx context.Context, match func(t auth.RefreshToken) bool) {
	defer r.s.lock(ctx)()

	now := r.s.now()
	for id, t := range r.s.data.tokens {
		if match(t) && !t.IsRevoked() {
			t.RevokedAt = &now
			r.s.data.tokens[id] = t
		}
	}
}
