// AngelaMos | 2026
// messages.go

package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/message"
)

type messageRepo struct {
	s *Store
}

func (r *messageRepo) Create(ctx context.Context, m *message.Message) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.messages[m.ID]; ok {
		return fmt.Errorf("create message: %w", core.ErrDuplicateKey)
	}

	m.CreatedAt = r.s.now()
	m.Resolved = false
	r.s.data.messages[m.ID] = *m

	return nil
}

func (r *messageRepo) GetByID(_ context.Context, id string) (*message.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.data.messages[id]
	if !ok {
		return nil, fmt.Errorf("get message: %w", core.ErrNotFound)
	}

	return &m, nil
}

func (r *messageRepo) List(_ context.Context, unresolvedOnly bool) ([]message.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	messages := []message.Message{}
	for _, m := range r.s.data.messages {
		if unresolvedOnly && m.Resolved {
			continue
		}
		messages = append(messages, m)
	}

	slices.SortFunc(messages, func(a, b message.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return messages, nil
}

func (r *messageRepo) SetResolved(ctx context.Context, id string, resolved bool) error {
	defer r.s.lock(ctx)()

	m, ok := r.s.data.messages[id]
	if !ok {
		return fmt.Errorf("resolve message: %w", core.ErrNotFound)
	}

	m.Resolved = resolved
	r.s.data.messages[id] = m

	return nil
}

func (r *messageRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.messages[id]; !ok {
		return fmt.Errorf("delete message: %w", core.ErrNotFound)
	}
	delete(r.s.data.messages, id)

	return nil
}
