// AngelaMos | 2026
// entities.go

package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/entity"
)

type entityRepo struct {
	s *Store
}

func (r *entityRepo) Create(ctx context.Context, e *entity.Entity) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.entities[e.ID]; ok {
		return fmt.Errorf("create entity: %w", core.ErrDuplicateKey)
	}

	now := r.s.now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.data.entities[e.ID] = *e

	return nil
}

func (r *entityRepo) GetByID(_ context.Context, id string) (*entity.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.data.entities[id]
	if !ok {
		return nil, fmt.Errorf("get entity: %w", core.ErrNotFound)
	}

	return &e, nil
}

func (r *entityRepo) ListSummaries(_ context.Context, filter entity.SummaryFilter) ([]entity.Summary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summaries := []entity.Summary{}
	for _, e := range r.s.data.entities {
		if filter.EntityID != "" && e.ID != filter.EntityID {
			continue
		}
		if filter.Name != "" && !containsFold(e.Name, filter.Name) {
			continue
		}

		sum := entity.Summary{Entity: e}
		if e.SubscriptionID != nil {
			if sub := r.s.subscriptionByID(*e.SubscriptionID); sub != nil {
				label := sub.Label
				sum.SubscriptionLabel = &label
			}
		}

		for _, u := range r.s.data.users {
			if u.EntityID != e.ID || !u.IsActive() {
				continue
			}
			if slices.Contains(filter.Instructors, u.Privilege) {
				sum.CfiCount++
			}
			if u.Privilege == access.PrivilegeStudent {
				sum.StudentCount++
			}
		}

		summaries = append(summaries, sum)
	}

	slices.SortFunc(summaries, func(a, b entity.Summary) int {
		if c := foldCompare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return summaries, nil
}

func (r *entityRepo) UpdateSubscription(ctx context.Context, id string, subscriptionID int) error {
	return r.update(ctx, id, "update entity subscription", func(e *entity.Entity) {
		e.SubscriptionID = &subscriptionID
	})
}

func (r *entityRepo) SetInactiveDate(ctx context.Context, id string, at *time.Time) error {
	return r.update(ctx, id, "set entity inactive date", func(e *entity.Entity) {
		e.InactiveDate = at
	})
}

func (r *entityRepo) CountActive(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, e := range r.s.data.entities {
		if e.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *entityRepo) update(ctx context.Context, id, op string, fn func(e *entity.Entity)) error {
	defer r.s.lock(ctx)()

	e, ok := r.s.data.entities[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	fn(&e)
	e.UpdatedAt = r.s.now()
	r.s.data.entities[id] = e

	return nil
}

// foldCompare orders case-insensitively, then byte-wise, matching
// ORDER BY LOWER(x) COLLATE "C", x COLLATE "C" on the postgres driver.
func foldCompare(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
