// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/flightlog/internal/core"
)

type Repository interface {
	ListOffered(ctx context.Context, withFeatures bool) ([]Subscription, error)
	GetByID(ctx context.Context, id int) (*Subscription, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListOffered(
	ctx context.Context,
	withFeatures bool,
) ([]Subscription, error) {
	query := `
		SELECT id, key, label, summary, price, require_sales
		FROM subscriptions
		WHERE key <> $1
		ORDER BY id`

	db := core.Conn(ctx, r.db)

	subs := []Subscription{}
	if err := db.SelectContext(ctx, &subs, query, KeyGlobal); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	if !withFeatures || len(subs) == 0 {
		return subs, nil
	}

	var features []Feature
	featureQuery := `
		SELECT f.id, f.subscription_id, f.feature
		FROM subscription_features f
		JOIN subscriptions s ON s.id = f.subscription_id
		WHERE s.key <> $1
		ORDER BY f.id`
	if err := db.SelectContext(ctx, &features, featureQuery, KeyGlobal); err != nil {
		return nil, fmt.Errorf("list subscription features: %w", err)
	}

	byID := make(map[int]int, len(subs))
	for i := range subs {
		byID[subs[i].ID] = i
		subs[i].Features = []Feature{}
	}
	for _, f := range features {
		if i, ok := byID[f.SubscriptionID]; ok {
			subs[i].Features = append(subs[i].Features, f)
		}
	}

	return subs, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	query := `
		SELECT id, key, label, summary, price, require_sales
		FROM subscriptions
		WHERE id = $1`

	var sub Subscription
	err := core.Conn(ctx, r.db).GetContext(ctx, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

// RequireOffered loads id and fails with a ValidationError on field when
// it is unknown or not offered.
func RequireOffered(
	ctx context.Context,
	repo Repository,
	field string,
	id int,
) (*Subscription, error) {
	sub, err := repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) || (err == nil && !sub.Offered()) {
		return nil, core.NewValidationError(core.FieldError{
			Field:   field,
			Message: "is not an available subscription",
		})
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}
