// AngelaMos | 2026
// handler_test.go

package admin_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/admin"
	"github.com/carterperez-dev/flightlog/internal/middleware"
	"github.com/carterperez-dev/flightlog/internal/testutil"
)

func newRouter(s *testutil.School, caller access.Identity, dbStats func() sql.DBStats) http.Handler {
	authenticator := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), caller)))
		})
	}

	h := admin.NewHandler(admin.HandlerConfig{
		Counter: admin.NewCounter(s.Store.Entities(), s.Store.Users(), s.Store.Messages()),
		DBStats: dbStats,
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r, authenticator, middleware.RequirePrivilege(access.PrivilegeGlobal))
	return r
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPlatformStats(t *testing.T) {
	s := testutil.NewSchool(t)
	rec := get(t, newRouter(s, s.As(s.Operator), nil), "/admin/stats")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data admin.PlatformStatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 3, body.Data.ActiveEntities)
	assert.Equal(t, map[string]int{
		"global":  1,
		"admin":   2,
		"cfi":     1,
		"student": 4,
	}, body.Data.ActiveUsers)
	assert.Zero(t, body.Data.OpenMessages)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}

func TestStatsRequireGlobal(t *testing.T) {
	s := testutil.NewSchool(t)

	tests := []struct {
		name   string
		caller access.Identity
		path   string
		want   int
	}{
		{name: "admin", caller: s.As(s.AlphaAdmin), path: "/admin/stats", want: http.StatusForbidden},
		{name: "student", caller: s.As(s.Student), path: "/admin/stats/db", want: http.StatusForbidden},
		{name: "anonymous", caller: access.Identity{}, path: "/admin/stats/runtime", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newRouter(s, tt.caller, nil), tt.path)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDatabaseStats(t *testing.T) {
	s := testutil.NewSchool(t)

	withPool := newRouter(s, s.As(s.Operator), func() sql.DBStats {
		return sql.DBStats{MaxOpenConnections: 25, OpenConnections: 3, InUse: 1, Idle: 2, WaitDuration: time.Second}
	})
	rec := get(t, withPool, "/admin/stats/db")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data admin.DBPoolStats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 25, body.Data.MaxOpenConnections)
	assert.Equal(t, "1s", body.Data.WaitDuration)

	rec = get(t, newRouter(s, s.As(s.Operator), nil), "/admin/stats/db")
	assert.Equal(t, http.StatusOK, rec.Code)
}
