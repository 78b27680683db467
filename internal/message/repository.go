// AngelaMos | 2026
// repository.go

package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	List(ctx context.Context, unresolvedOnly bool) ([]Message, error)
	SetResolved(ctx context.Context, id string, resolved bool) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (id, type, org_name, contact_name, email, body)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := core.Conn(ctx, r.db).GetContext(ctx, &m.CreatedAt, query,
		m.ID, m.Type, m.OrgName, m.ContactName, m.Email, m.Body,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Message, error) {
	query := `
		SELECT id, type, org_name, contact_name, email, body, resolved, created_at
		FROM messages
		WHERE id = $1`

	var m Message
	err := core.Conn(ctx, r.db).GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get message: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &m, nil
}

func (r *repository) List(ctx context.Context, unresolvedOnly bool) ([]Message, error) {
	query := `
		SELECT id, type, org_name, contact_name, email, body, resolved, created_at
		FROM messages
		WHERE ($1 = false OR resolved = false)
		ORDER BY created_at ASC`

	messages := []Message{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &messages, query, unresolvedOnly); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}

func (r *repository) SetResolved(ctx context.Context, id string, resolved bool) error {
	result, err := core.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE messages SET resolved = $2 WHERE id = $1`, id, resolved)
	if err != nil {
		return fmt.Errorf("resolve message: %w", err)
	}
	return requireRow(result, "resolve message")
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := core.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return requireRow(result, "delete message")
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
