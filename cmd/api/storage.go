// AngelaMos | 2026
// storage.go

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/config"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/health"
	"github.com/carterperez-dev/flightlog/internal/memstore"
	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/migration"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/subscription"
	"github.com/carterperez-dev/flightlog/internal/syllabus"
	"github.com/carterperez-dev/flightlog/internal/user"
)

// storage is the set of repositories behind the configured driver.
type storage struct {
	tx      core.Transactor
	pinger  health.Checker
	dbStats func() sql.DBStats
	close   func() error

	entities      entity.Repository
	users         user.Repository
	ratings       rating.Repository
	subscriptions subscription.Repository
	syllabi       syllabus.Repository
	progress      syllabus.ProgressRepository
	messages      message.Repository
	tokens        auth.Repository
}

func openStorage(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return memoryStorage(memstore.New()), nil
	case config.DriverPostgres, "":
		return postgresStorage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func postgresStorage(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*storage, error) {
	db, err := core.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	if cfg.AutoMigrate {
		if err := migration.RunMigrations(db.DB.DB); err != nil {
			_ = db.Close() //nolint:errcheck // cleanup on migration failure
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	return &storage{
		tx:      db,
		pinger:  db,
		dbStats: db.Stats,
		close:   db.Close,

		entities:      entity.NewRepository(db.DB),
		users:         user.NewRepository(db.DB),
		ratings:       rating.NewRepository(db.DB),
		subscriptions: subscription.NewRepository(db.DB),
		syllabi:       syllabus.NewRepository(db.DB),
		progress:      syllabus.NewProgressRepository(db.DB),
		messages:      message.NewRepository(db.DB),
		tokens:        auth.NewRepository(db.DB),
	}, nil
}

func memoryStorage(store *memstore.Store) *storage {
	return &storage{
		tx:     store,
		pinger: store,
		close:  func() error { return nil },

		entities:      store.Entities(),
		users:         store.Users(),
		ratings:       store.Ratings(),
		subscriptions: store.Subscriptions(),
		syllabi:       store.Syllabi(),
		progress:      store.Progress(),
		messages:      store.Messages(),
		tokens:        store.RefreshTokens(),
	}
}
