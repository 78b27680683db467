// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/rating"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SetInactiveDate(ctx context.Context, id string, at *time.Time) error
	List(ctx context.Context, filter Filter) ([]User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListRatings(ctx context.Context, userID string) ([]rating.Rating, error)
	ReplaceRatings(ctx context.Context, userID string, ratingIDs []int) error
	CountActiveByPrivilege(ctx context.Context) (map[access.Privilege]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, entity_id, privilege, first_name, last_name, email, password_hash,
	has_gold_seal, cfi_id, syllabus_id, inactive_date, token_version,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, entity_id, privilege, first_name, last_name, email,
			password_hash, has_gold_seal, cfi_id, syllabus_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at, token_version`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		user.ID,
		user.EntityID,
		user.Privilege,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.HasGoldSeal,
		user.CfiID,
		user.SyllabusID,
	).Scan(&user.CreatedAt, &user.UpdatedAt, &user.TokenVersion)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := core.Conn(ctx, r.db).GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := core.Conn(ctx, r.db).GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, has_gold_seal = $5,
		    cfi_id = $6, syllabus_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := core.Conn(ctx, r.db).GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.HasGoldSeal,
		user.CfiID,
		user.SyllabusID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "increment token version", query, id)
}

func (r *repository) SetInactiveDate(ctx context.Context, id string, at *time.Time) error {
	query := `
		UPDATE users
		SET inactive_date = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "set user inactive date", query, id, at)
}

func (r *repository) List(ctx context.Context, filter Filter) ([]User, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter.EntityID != "" {
		conditions = append(conditions, fmt.Sprintf("entity_id = $%d", argIdx))
		args = append(args, filter.EntityID)
		argIdx++
	}

	if len(filter.Privileges) > 0 {
		names := make([]string, 0, len(filter.Privileges))
		for _, p := range filter.Privileges {
			names = append(names, p.String())
		}
		conditions = append(conditions, fmt.Sprintf("privilege = ANY($%d::text[])", argIdx))
		args = append(args, names)
		argIdx++
	}

	if filter.ActiveOnly {
		conditions = append(conditions, "inactive_date IS NULL")
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(filter.Search)+"%")
		argIdx++
	}

	if filter.CfiID != "" {
		conditions = append(conditions, fmt.Sprintf("cfi_id = $%d", argIdx))
		args = append(args, filter.CfiID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		%s
		ORDER BY LOWER(last_name) COLLATE "C", last_name COLLATE "C",
			LOWER(first_name) COLLATE "C", first_name COLLATE "C", id`,
		userColumns, where)

	users := []User{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := core.Conn(ctx, r.db).GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *repository) ListRatings(ctx context.Context, userID string) ([]rating.Rating, error) {
	query := `
		SELECT r.id, r.label
		FROM user_ratings ur
		JOIN ratings r ON r.id = ur.rating_id
		WHERE ur.user_id = $1
		ORDER BY r.id`

	ratings := []rating.Rating{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &ratings, query, userID); err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}

	return ratings, nil
}

// ReplaceRatings clears the user's ratings and sets ratingIDs. Callers run
// it inside a transaction.
func (r *repository) ReplaceRatings(ctx context.Context, userID string, ratingIDs []int) error {
	db := core.Conn(ctx, r.db)

	if _, err := db.ExecContext(ctx, `DELETE FROM user_ratings WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user ratings: %w", err)
	}

	for _, id := range ratingIDs {
		_, err := db.ExecContext(ctx,
			`INSERT INTO user_ratings (user_id, rating_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			userID, id,
		)
		if err != nil {
			return fmt.Errorf("set user rating %d: %w", id, err)
		}
	}

	return nil
}

func (r *repository) CountActiveByPrivilege(ctx context.Context) (map[access.Privilege]int, error) {
	query := `
		SELECT privilege, COUNT(*) AS n
		FROM users
		WHERE inactive_date IS NULL
		GROUP BY privilege`

	var rows []struct {
		Privilege access.Privilege `db:"privilege"`
		N         int              `db:"n"`
	}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	counts := make(map[access.Privilege]int, len(rows))
	for _, row := range rows {
		counts[row.Privilege] = row.N
	}

	return counts, nil
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
