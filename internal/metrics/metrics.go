// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flightlog"

// Recorder owns every collector the service exports. Each instance has its
// own registry so tests can build as many as they like.
type Recorder struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	usersCreated    *prometheus.CounterVec
	signups         prometheus.Counter
	lessonProgress  *prometheus.CounterVec
	syllabusVersion prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		usersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Users provisioned, by privilege.",
		}, []string{"privilege"}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_signups_total",
			Help:      "Entities created together with their first admin.",
		}),
		lessonProgress: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lesson_progress_recorded_total",
			Help:      "Lesson progress writes, by status.",
		}, []string{"status"}),
		syllabusVersion: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syllabus_versions_created_total",
			Help:      "Syllabus rows created by a version bump.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requests,
		r.duration,
		r.usersCreated,
		r.signups,
		r.lessonProgress,
		r.syllabusVersion,
	)

	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Middleware labels requests with the matched chi route pattern rather than
// the raw path to keep cardinality bounded.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.requests.WithLabelValues(route, req.Method, strconv.Itoa(status)).Inc()
		r.duration.WithLabelValues(route, req.Method).Observe(time.Since(start).Seconds())
	})
}

func (r *Recorder) UserCreated(privilege string) {
	r.usersCreated.WithLabelValues(privilege).Inc()
}

func (r *Recorder) EntitySignup() {
	r.signups.Inc()
}

func (r *Recorder) LessonProgress(status string) {
	r.lessonProgress.WithLabelValues(status).Inc()
}

func (r *Recorder) SyllabusVersioned() {
	r.syllabusVersion.Inc()
}
