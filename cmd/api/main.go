// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/admin"
	"github.com/carterperez-dev/flightlog/internal/auth"
	"github.com/carterperez-dev/flightlog/internal/config"
	"github.com/carterperez-dev/flightlog/internal/core"
	"github.com/carterperez-dev/flightlog/internal/dashboard"
	"github.com/carterperez-dev/flightlog/internal/directory"
	"github.com/carterperez-dev/flightlog/internal/enrollment"
	"github.com/carterperez-dev/flightlog/internal/entity"
	"github.com/carterperez-dev/flightlog/internal/health"
	"github.com/carterperez-dev/flightlog/internal/message"
	"github.com/carterperez-dev/flightlog/internal/metrics"
	"github.com/carterperez-dev/flightlog/internal/middleware"
	"github.com/carterperez-dev/flightlog/internal/progress"
	"github.com/carterperez-dev/flightlog/internal/quote"
	"github.com/carterperez-dev/flightlog/internal/rating"
	"github.com/carterperez-dev/flightlog/internal/server"
	"github.com/carterperez-dev/flightlog/internal/subscription"
	"github.com/carterperez-dev/flightlog/internal/user"
)

const (
	drainDelay = 5 * time.Second

	credentialRequestsPerMinute = 10
	credentialBurst             = 5
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen,gocyclo // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"driver", cfg.Database.Driver,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
	} else if telemetry.Enabled() {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
			"sample_rate", core.SampleRate(cfg.Otel.SampleRate),
		)
	}

	store, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	var (
		rdb         *core.Redis
		redisClient *redis.Client
		quoteCache  quote.Cache
	)
	if cfg.Redis.URL != "" {
		rdb, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisClient = rdb.Client
		quoteCache = rdb
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	}

	if err := ensureSigningKeys(cfg, logger); err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	hasher, err := core.NewArgon2Hasher(cfg.Security.PasswordPepper)
	if err != nil {
		return err
	}

	recorder := metrics.New()

	dirSvc := directory.NewService(
		directory.Config{
			CountAdminsAsInstructors: cfg.Directory.CountAdminsAsInstructors,
		},
		store.entities,
		store.users,
		store.syllabi,
		store.progress,
	)
	progressSvc := progress.NewService(dirSvc)

	enrollSvc := enrollment.NewService(enrollment.Deps{
		Tx:            store.tx,
		Entities:      store.entities,
		Users:         store.users,
		Ratings:       store.ratings,
		Subscriptions: store.subscriptions,
		Syllabi:       store.syllabi,
		Progress:      store.progress,
		Hasher:        hasher,
		Metrics:       recorder,
		Instructors:   dirSvc.Instructors(),
	})

	created, err := enrollSvc.EnsureGlobalOperator(
		ctx,
		cfg.Bootstrap.GlobalEmail,
		cfg.Bootstrap.GlobalPassword,
	)
	if err != nil {
		return err
	}
	if created {
		logger.Info("global operator created", "email", cfg.Bootstrap.GlobalEmail)
	}

	userSvc := user.NewService(store.users)
	authSvc := auth.NewService(
		store.tokens,
		jwtManager,
		userSvc,
		enrollSvc,
		hasher,
		redisClient,
	)
	messageSvc := message.NewService(store.messages)
	entitySvc := entity.NewService(store.entities, store.subscriptions)

	var quotes quote.Source
	if cfg.Quote.Enabled {
		quotes = quote.NewClient(cfg.Quote, quoteCache)
	}
	composer := dashboard.NewComposer(
		dirSvc,
		progressSvc,
		messageSvc,
		store.subscriptions,
		quotes,
	)

	deps := []health.Dependency{{Name: "database", Checker: store.pinger}}
	if rdb != nil {
		deps = append(deps, health.Dependency{Name: "redis", Checker: rdb, Optional: true})
	}
	healthHandler := health.NewHandler(deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Counter: admin.NewCounter(store.entities, store.users, store.messages),
		DBStats: store.dbStats,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(recorder.Middleware)
	router.Use(
		middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Limit: redis_rate.Limit{
				Rate:   cfg.RateLimit.Requests,
				Burst:  cfg.RateLimit.Burst,
				Period: cfg.RateLimit.Window,
			},
			FailOpen:   true,
			BypassFunc: middleware.BypassOps,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, recorder.Handler())
	}

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	tiered := middleware.PrivilegeRateLimiter(redisClient, middleware.DefaultTiers)
	verify := middleware.Authenticator(authSvc)
	authenticator := func(next http.Handler) http.Handler {
		return verify(tiered(next))
	}
	globalOnly := middleware.RequirePrivilege(access.PrivilegeGlobal)

	credentialLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(credentialRequestsPerMinute, credentialBurst),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator, credentialLimiter)

		rating.NewHandler(store.ratings).RegisterRoutes(r)
		subscription.NewHandler(store.subscriptions).RegisterRoutes(r)

		user.NewHandler(userSvc).RegisterRoutes(r, authenticator)
		entity.NewHandler(entitySvc).RegisterRoutes(r, authenticator)
		directory.NewHandler(dirSvc).RegisterRoutes(r, authenticator)
		progress.NewHandler(progressSvc).RegisterRoutes(r, authenticator)
		enrollment.NewHandler(enrollSvc).RegisterRoutes(r, authenticator)
		message.NewHandler(messageSvc).RegisterRoutes(r, authenticator)
		dashboard.NewHandler(composer).RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, globalOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := store.close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// ensureSigningKeys writes a fresh ES256 key pair outside production when
// the configured private key does not exist yet.
func ensureSigningKeys(cfg *config.Config, logger *slog.Logger) error {
	_, err := os.Stat(cfg.JWT.PrivateKeyPath)
	if err == nil || !errors.Is(err, fs.ErrNotExist) || cfg.IsProduction() {
		return nil
	}

	if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
		return err
	}
	logger.Warn("generated development signing keys",
		"private_key", cfg.JWT.PrivateKeyPath,
	)
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
