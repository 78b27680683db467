// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	FindByID(ctx context.Context, id string) (*RefreshToken, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	GetActiveSessionsForUser(ctx context.Context, userID string) ([]RefreshToken, error)
}

const (
	selectTokenSQL = `
		SELECT id, user_id, token_hash, family_id, expires_at, created_at,
			is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address
		FROM refresh_tokens`

	insertTokenSQL = `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at, user_agent, ip_address
		) VALUES (
			:id, :user_id, :token_hash, :family_id, :expires_at, :user_agent, :ip_address
		)
		RETURNING created_at`

	markUsedSQL = `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = false`

	revokeSQL = `UPDATE refresh_tokens SET revoked_at = NOW() WHERE revoked_at IS NULL AND `
)

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	conn := core.Conn(ctx, r.db)

	query, args, err := conn.BindNamed(insertTokenSQL, token)
	if err != nil {
		return fmt.Errorf("bind refresh token: %w", err)
	}

	if err := conn.GetContext(ctx, &token.CreatedAt, query, args...); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (r *repository) FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	return r.findOne(ctx, "token_hash", tokenHash)
}

func (r *repository) FindByID(ctx context.Context, id string) (*RefreshToken, error) {
	return r.findOne(ctx, "id", id)
}

func (r *repository) findOne(ctx context.Context, column, value string) (*RefreshToken, error) {
	var token RefreshToken
	err := core.Conn(ctx, r.db).GetContext(ctx, &token,
		selectTokenSQL+` WHERE `+column+` = $1`, value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("refresh token by %s: %w", column, core.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("refresh token by %s: %w", column, err)
	}
	return &token, nil
}

// MarkAsUsed fails with ErrNotFound when the token was already rotated,
// which the service treats as reuse.
func (r *repository) MarkAsUsed(ctx context.Context, id, replacedByID string) error {
	res, err := core.Conn(ctx, r.db).ExecContext(ctx, markUsedSQL, id, replacedByID)
	if err != nil {
		return fmt.Errorf("mark refresh token used: %w", err)
	}
	return requireRow(res, "mark refresh token used")
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	res, err := core.Conn(ctx, r.db).ExecContext(ctx, revokeSQL+`id = $1`, id)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return requireRow(res, "revoke refresh token")
}

// RevokeByFamilyID kills every live token descended from the same login.
func (r *repository) RevokeByFamilyID(ctx context.Context, familyID string) error {
	if _, err := core.Conn(ctx, r.db).ExecContext(ctx, revokeSQL+`family_id = $1`, familyID); err != nil {
		return fmt.Errorf("revoke token family: %w", err)
	}
	return nil
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	if _, err := core.Conn(ctx, r.db).ExecContext(ctx, revokeSQL+`user_id = $1`, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (r *repository) GetActiveSessionsForUser(ctx context.Context, userID string) ([]RefreshToken, error) {
	tokens := []RefreshToken{}
	err := core.Conn(ctx, r.db).SelectContext(ctx, &tokens, selectTokenSQL+`
		WHERE user_id = $1
			AND revoked_at IS NULL
			AND is_used = false
			AND expires_at > NOW()
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("active sessions: %w", err)
	}
	return tokens, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
