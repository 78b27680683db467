// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
)

// Counter reads the platform-wide totals shown to global users.
type Counter interface {
	ActiveEntities(ctx context.Context) (int, error)
	ActiveUsersByPrivilege(ctx context.Context) (map[access.Privilege]int, error)
	OpenMessages(ctx context.Context) (int, error)
}

type Handler struct {
	counter Counter
	dbStats func() sql.DBStats
}

// HandlerConfig.DBStats is nil when no SQL pool is in use.
type HandlerConfig struct {
	Counter Counter
	DBStats func() sql.DBStats
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		counter: cfg.Counter,
		dbStats: cfg.DBStats,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, globalOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(globalOnly)

		r.Get("/stats", h.GetPlatformStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entities, err := h.counter.ActiveEntities(ctx)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	byPrivilege, err := h.counter.ActiveUsersByPrivilege(ctx)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	open, err := h.counter.OpenMessages(ctx)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	users := make(map[string]int, len(byPrivilege))
	for p, n := range byPrivilege {
		users[p.String()] = n
	}

	core.OK(w, PlatformStatsResponse{
		ActiveEntities: entities,
		ActiveUsers:    users,
		OpenMessages:   open,
		Runtime:        readRuntime(),
	})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if h.dbStats == nil {
		core.OK(w, nil)
		return
	}

	stats := h.dbStats()
	core.OK(w, DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntime())
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     mem.Alloc,
		NumGC:        mem.NumGC,
	}
}

type PlatformStatsResponse struct {
	ActiveEntities int            `json:"active_entities"`
	ActiveUsers    map[string]int `json:"active_users"`
	OpenMessages   int            `json:"open_messages"`
	Runtime        RuntimeStats   `json:"runtime"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
