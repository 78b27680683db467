// AngelaMos | 2026
// repository.go

package entity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Entity) error
	GetByID(ctx context.Context, id string) (*Entity, error)
	ListSummaries(ctx context.Context, filter SummaryFilter) ([]Summary, error)
	UpdateSubscription(ctx context.Context, id string, subscriptionID int) error
	SetInactiveDate(ctx context.Context, id string, at *time.Time) error
	CountActive(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Entity) error {
	query := `
		INSERT INTO entities (id, name, phone, subscription_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		e.ID,
		e.Name,
		e.Phone,
		e.SubscriptionID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create entity: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Entity, error) {
	query := `
		SELECT id, name, phone, subscription_id, inactive_date,
		       created_at, updated_at
		FROM entities
		WHERE id = $1`

	var e Entity
	err := core.Conn(ctx, r.db).GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}

	return &e, nil
}

func (r *repository) ListSummaries(
	ctx context.Context,
	filter SummaryFilter,
) ([]Summary, error) {
	instructors := make([]string, 0, len(filter.Instructors))
	for _, p := range filter.Instructors {
		instructors = append(instructors, p.String())
	}

	args := []any{instructors, access.PrivilegeStudent.String()}
	argIdx := 3

	var conditions []string

	if filter.EntityID != "" {
		conditions = append(conditions, fmt.Sprintf("e.id = $%d", argIdx))
		args = append(args, filter.EntityID)
		argIdx++
	}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("e.name ILIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(filter.Name)+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.name, e.phone, e.subscription_id, e.inactive_date,
		       e.created_at, e.updated_at,
		       s.label AS subscription_label,
		       (SELECT COUNT(*) FROM users u
		         WHERE u.entity_id = e.id
		           AND u.inactive_date IS NULL
		           AND u.privilege = ANY($1::text[])) AS cfi_count,
		       (SELECT COUNT(*) FROM users u
		         WHERE u.entity_id = e.id
		           AND u.inactive_date IS NULL
		           AND u.privilege = $2) AS student_count
		FROM entities e
		LEFT JOIN subscriptions s ON s.id = e.subscription_id
		%s
		ORDER BY LOWER(e.name) COLLATE "C", e.name COLLATE "C", e.id`, where)

	summaries := []Summary{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	return summaries, nil
}

func (r *repository) UpdateSubscription(
	ctx context.Context,
	id string,
	subscriptionID int,
) error {
	query := `
		UPDATE entities
		SET subscription_id = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update entity subscription", query, id, subscriptionID)
}

func (r *repository) SetInactiveDate(
	ctx context.Context,
	id string,
	at *time.Time,
) error {
	query := `
		UPDATE entities
		SET inactive_date = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "set entity inactive date", query, id, at)
}

func (r *repository) CountActive(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM entities WHERE inactive_date IS NULL`
	if err := core.Conn(ctx, r.db).GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("count entities: %w", err)
	}
	return n, nil
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := core.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
