// AngelaMos | 2026
// store.go

// Package memstore keeps every repository in process memory. It backs the
// "memory" database driver and the service tests.
package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/subscription"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/user"
)

type progressKey struct {
	userID   string
	lessonID int64
}

type tables struct {
	entities    map[string]entity.Entity
	users       map[string]user.User
	userRatings map[string][]int
	syllabi     map[string]syllabus.Syllabus
	lessons     map[int64]syllabus.Lesson
	progress    map[progressKey]syllabus.UserLesson
	messages    map[string]message.Message
	tokens      map[string]auth.RefreshToken
	lessonSeq   int64
	progressSeq int64
}

func newTables() tables {
	return tables{
		entities:    make(map[string]entity.Entity),
		users:       make(map[string]user.User),
		userRatings: make(map[string][]int),
		syllabi:     make(map[string]syllabus.Syllabus),
		lessons:     make(map[int64]syllabus.Lesson),
		progress:    make(map[progressKey]syllabus.UserLesson),
		messages:    make(map[string]message.Message),
		tokens:      make(map[string]auth.RefreshToken),
	}
}

// clone copies every table. Rows are stored by value and replaced rather
// than mutated, so a shallow map copy is a full snapshot.
func (t tables) clone() tables {
	return tables{
		entities:    maps.Clone(t.entities),
		users:       maps.Clone(t.users),
		userRatings: maps.Clone(t.userRatings),
		syllabi:     maps.Clone(t.syllabi),
		lessons:     maps.Clone(t.lessons),
		progress:    maps.Clone(t.progress),
		messages:    maps.Clone(t.messages),
		tokens:      maps.Clone(t.tokens),
		lessonSeq:   t.lessonSeq,
		progressSeq: t.progressSeq,
	}
}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data tables

	ratings       []rating.Rating
	subscriptions []subscription.Subscription
	features      []subscription.Feature

	now func() time.Time
}

// New returns an empty store holding the seeded reference data.
func New() *Store {
	return &Store{
		data:          newTables(),
		ratings:       rating.Seed,
		subscriptions: subscription.Seed,
		features:      subscription.SeedFeatures,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// lock takes the write lock and returns its release. Writes outside a
// transaction also wait for the running one, so a rollback restoring its
// snapshot can only discard the transaction's own writes.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}

	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// WithinTx serializes transactions and restores the snapshot taken on
// entry when fn fails or panics. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	rollback := func() {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}

	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Entities() entity.Repository {
	return &entityRepo{s: s}
}

func (s *Store) Users() user.Repository {
	return &userRepo{s: s}
}

func (s *Store) Ratings() rating.Repository {
	return &ratingRepo{s: s}
}

func (s *Store) Subscriptions() subscription.Repository {
	return &subscriptionRepo{s: s}
}

func (s *Store) Syllabi() syllabus.Repository {
	return &syllabusRepo{s: s}
}

func (s *Store) Progress() syllabus.ProgressRepository {
	return &progressRepo{s: s}
}

func (s *Store) Messages() message.Repository {
	return &messageRepo{s: s}
}

func (s *Store) RefreshTokens() auth.Repository {
	return &tokenRepo{s: s}
}
