// AngelaMos | 2026
// metrics_test.go

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, rec *Recorder) string {
	t.Helper()

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	return w.Body.String()
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	rec := New()

	router := chi.NewRouter()
	router.Use(rec.Middleware)
	router.Get("/students/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodGet, "/students/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	body := scrape(t, rec)
	assert.Contains(t, body,
		`flightlog_http_requests_total{method="GET",route="/students/{id}",status="418"} 3`)
	assert.NotContains(t, body, `route="/students/a"`)
}

func TestDomainCounters(t *testing.T) {
	rec := New()

	rec.UserCreated("student")
	rec.UserCreated("student")
	rec.EntitySignup()
	rec.LessonProgress("completed")
	rec.SyllabusVersioned()

	body := scrape(t, rec)
	assert.Contains(t, body, `flightlog_users_created_total{privilege="student"} 2`)
	assert.Contains(t, body, "flightlog_entity_signups_total 1")
	assert.Contains(t, body, `flightlog_lesson_progress_recorded_total{status="completed"} 1`)
	assert.Contains(t, body, "flightlog_syllabus_versions_created_total 1")
}
