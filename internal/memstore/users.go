// AngelaMos | 2026
// users.go

package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/user"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.users[u.ID]; ok || r.emailTaken(u.Email, "") {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	u.TokenVersion = 0

	row := *u
	row.Ratings = nil
	r.s.data.users[u.ID] = row

	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}

	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (r *userRepo) Update(ctx context.Context, u *user.User) error {
	defer r.s.lock(ctx)()

	row, ok := r.s.data.users[u.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if r.emailTaken(u.Email, u.ID) {
		return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
	}

	row.FirstName = u.FirstName
	row.LastName = u.LastName
	row.Email = u.Email
	row.HasGoldSeal = u.HasGoldSeal
	row.CfiID = u.CfiID
	row.SyllabusID = u.SyllabusID
	row.UpdatedAt = r.s.now()
	r.s.data.users[u.ID] = row

	u.UpdatedAt = row.UpdatedAt

	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, id, "update password", func(u *user.User) {
		u.PasswordHash = passwordHash
	})
}

func (r *userRepo) IncrementTokenVersion(ctx context.Context, id string) error {
	return r.update(ctx, id, "increment token version", func(u *user.User) {
		u.TokenVersion++
	})
}

func (r *userRepo) SetInactiveDate(ctx context.Context, id string, at *time.Time) error {
	return r.update(ctx, id, "set user inactive date", func(u *user.User) {
		u.InactiveDate = at
	})
}

func (r *userRepo) List(_ context.Context, filter user.Filter) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []user.User{}
	for _, u := range r.s.data.users {
		if filter.EntityID != "" && u.EntityID != filter.EntityID {
			continue
		}
		if len(filter.Privileges) > 0 && !slices.Contains(filter.Privileges, u.Privilege) {
			continue
		}
		if filter.ActiveOnly && !u.IsActive() {
			continue
		}
		if filter.Search != "" &&
			!containsFold(u.FirstName, filter.Search) &&
			!containsFold(u.LastName, filter.Search) {
			continue
		}
		if filter.CfiID != "" && (u.CfiID == nil || *u.CfiID != filter.CfiID) {
			continue
		}
		users = append(users, u)
	}

	slices.SortFunc(users, func(a, b user.User) int {
		if c := foldCompare(a.LastName, b.LastName); c != 0 {
			return c
		}
		if c := foldCompare(a.FirstName, b.FirstName); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return users, nil
}

func (r *userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.emailTaken(email, ""), nil
}

func (r *userRepo) ListRatings(_ context.Context, userID string) ([]rating.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ratings := []rating.Rating{}
	for _, rt := range r.s.ratings {
		if slices.Contains(r.s.data.userRatings[userID], rt.ID) {
			ratings = append(ratings, rt)
		}
	}

	return ratings, nil
}

func (r *userRepo) ReplaceRatings(ctx context.Context, userID string, ratingIDs []int) error {
	defer r.s.lock(ctx)()

	ids := make([]int, 0, len(ratingIDs))
	for _, id := range ratingIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		delete(r.s.data.userRatings, userID)
		return nil
	}
	r.s.data.userRatings[userID] = ids

	return nil
}

func (r *userRepo) CountActiveByPrivilege(context.Context) (map[access.Privilege]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[access.Privilege]int)
	for _, u := range r.s.data.users {
		if u.IsActive() {
			counts[u.Privilege]++
		}
	}

	return counts, nil
}

func (r *userRepo) update(ctx context.Context, id, op string, fn func(u *user.User)) error {
	defer r.s.lock(ctx)()

	u, ok := r.s.data.users[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u

	return nil
}

// emailTaken must be called with the lock held.
func (r *userRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.data.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}
