// AngelaMos | 2026
// repository.go

package rating

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Rating, error)
	FindByIDs(ctx context.Context, ids []int) ([]Rating, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Rating, error) {
	query := `SELECT id, label FROM ratings ORDER BY id`

	ratings := []Rating{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &ratings, query); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	return ratings, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []int) ([]Rating, error) {
	ratings := []Rating{}
	if len(ids) == 0 {
		return ratings, nil
	}

	query, args, err := sqlx.In(`SELECT id, label FROM ratings WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("find ratings: %w", err)
	}

	db := core.Conn(ctx, r.db)
	if err := db.SelectContext(ctx, &ratings, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find ratings: %w", err)
	}

	return ratings, nil
}

// Resolve loads the ratings named by ids and fails with a ValidationError
// on unknown ids. Duplicates are collapsed.
func Resolve(ctx context.Context, repo Repository, field string, ids []int) ([]Rating, error) {
	unique := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	if len(found) != len(unique) {
		return nil, core.NewValidationError(core.FieldError{
			Field:   field,
			Message: "contains an unknown rating",
		})
	}

	return found, nil
}
