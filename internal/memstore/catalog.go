// AngelaMos | 2026
// catalog.go

package memstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/subscription"
)

type ratingRepo struct {
	s *Store
}

func (r *ratingRepo) List(context.Context) ([]rating.Rating, error) {
	return slices.Clone(r.s.ratings), nil
}

func (r *ratingRepo) FindByIDs(_ context.Context, ids []int) ([]rating.Rating, error) {
	found := []rating.Rating{}
	for _, rt := range r.s.ratings {
		if slices.Contains(ids, rt.ID) {
			found = append(found, rt)
		}
	}
	return found, nil
}

type subscriptionRepo struct {
	s *Store
}

func (r *subscriptionRepo) ListOffered(_ context.Context, withFeatures bool) ([]subscription.Subscription, error) {
	subs := []subscription.Subscription{}
	for _, sub := range r.s.subscriptions {
		if !sub.Offered() {
			continue
		}
		sub.Features = nil
		if withFeatures {
			sub.Features = []subscription.Feature{}
			for _, f := range r.s.features {
				if f.SubscriptionID == sub.ID {
					sub.Features = append(sub.Features, f)
				}
			}
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r *subscriptionRepo) GetByID(_ context.Context, id int) (*subscription.Subscription, error) {
	sub := r.s.subscriptionByID(id)
	if sub == nil {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	out := *sub
	out.Features = nil
	return &out, nil
}

func (s *Store) subscriptionByID(id int) *subscription.Subscription {
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			return &s.subscriptions[i]
		}
	}
	return nil
}
