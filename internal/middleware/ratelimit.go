// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/flightlog/internal/access"
	"github.com/carterperez-dev/flightlog/internal/core"
)

var errLimiterUnavailable = errors.New("rate limiter unavailable")

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
	// FailOpen switches to in-process buckets when redis errors instead
	// of answering 503.
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

type RateLimiter struct {
	buckets *buckets
	config  RateLimitConfig
}

// NewRateLimiter limits through redis when rdb is set and keeps
// in-process buckets otherwise.
func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	return &RateLimiter{buckets: newBuckets(rdb), config: cfg}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		res, err := rl.buckets.take(r.Context(), rl.config.KeyFunc(r), rl.config.Limit, rl.config.FailOpen)
		if err != nil {
			core.JSONError(w, core.NewAppError(
				err, errLimiterUnavailable.Error(), http.StatusServiceUnavailable, "UNAVAILABLE",
			))
			return
		}

		admit(w, r, next, res)
	})
}

type TierConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// DefaultTiers gives staff more headroom than students. Global operators
// run cross-entity dashboards and get the largest budget.
var DefaultTiers = map[access.Privilege]TierConfig{
	access.PrivilegeGlobal:  {RequestsPerMinute: 1200, BurstSize: 200},
	access.PrivilegeAdmin:   {RequestsPerMinute: 600, BurstSize: 100},
	access.PrivilegeCFI:     {RequestsPerMinute: 300, BurstSize: 50},
	access.PrivilegeStudent: {RequestsPerMinute: 120, BurstSize: 20},
}

// PrivilegeRateLimiter limits authenticated callers by their privilege,
// falling back to the student tier. It must run after Authenticator.
func PrivilegeRateLimiter(
	rdb *redis.Client,
	tiers map[access.Privilege]TierConfig,
) func(http.Handler) http.Handler {
	b := newBuckets(rdb)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := GetIdentity(r.Context())

			tier, ok := tiers[caller.Privilege]
			if !ok {
				tier = tiers[access.PrivilegeStudent]
			}
			limit := PerMinute(tier.RequestsPerMinute, tier.BurstSize)

			//nolint:errcheck // failing open never errors
			res, _ := b.take(r.Context(), KeyByUser(r), limit, true)

			w.Header().Set("X-RateLimit-Tier", caller.Privilege.String())
			admit(w, r, next, res)
		})
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

func admit(w http.ResponseWriter, r *http.Request, next http.Handler, res *redis_rate.Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", res.Limit.Rate, int(res.Limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))

	if res.Allowed > 0 {
		next.ServeHTTP(w, r)
		return
	}

	retryAfter := max(int(res.RetryAfter.Seconds()), 1)
	h.Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSONError(w, core.NewAppError(
		errLimiterUnavailable,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
}

// BypassOps skips probes and metrics scrapes.
func BypassOps(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz", "/metrics":
		return true
	}
	return false
}

// KeyByIP trusts the last X-Forwarded-For hop, which is the one our own
// proxy appended.
func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return KeyByIP(r)
}

// KeyByIPAndEndpoint is used for credential endpoints so one address
// cannot spread guesses across routes.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routeShape(r.URL.Path)
}

// routeShape replaces id segments so /users/<uuid>/lessons/42 and every
// other user share one key.
func routeShape(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
			continue
		}
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

const (
	bucketSweepInterval = 5 * time.Minute
	bucketIdleTTL       = 10 * time.Minute
)

// buckets takes tokens from redis when it is configured and from
// in-process token buckets otherwise.
type buckets struct {
	remote *redis_rate.Limiter

	mu        sync.Mutex
	local     map[string]*localBucket
	sweepOnce sync.Once
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newBuckets(rdb *redis.Client) *buckets {
	b := &buckets{local: make(map[string]*localBucket)}
	if rdb != nil {
		b.remote = redis_rate.NewLimiter(rdb)
	}
	return b
}

func (b *buckets) take(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
	failOpen bool,
) (*redis_rate.Result, error) {
	if b.remote != nil {
		res, err := b.remote.Allow(ctx, key, limit)
		if err == nil {
			return res, nil
		}
		if !failOpen {
			return nil, fmt.Errorf("redis allow %s: %w", key, err)
		}
		slog.WarnContext(ctx, "rate limiter redis error, using local buckets",
			"error", err,
			"key", key,
		)
	}
	return b.takeLocal(key, limit), nil
}

func (b *buckets) takeLocal(key string, limit redis_rate.Limit) *redis_rate.Result {
	b.sweepOnce.Do(func() { go b.sweep() })

	perToken := time.Duration(float64(limit.Period) / float64(max(limit.Rate, 1)))
	now := time.Now()

	b.mu.Lock()
	bucket, ok := b.local[key]
	if !ok {
		bucket = &localBucket{limiter: rate.NewLimiter(rate.Every(perToken), limit.Burst)}
		b.local[key] = bucket
	}
	bucket.lastSeen = now
	allowed := bucket.limiter.AllowN(now, 1)
	remaining := max(int(bucket.limiter.TokensAt(now)), 0)
	b.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: perToken,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = perToken
	}
	return res
}

func (b *buckets) sweep() {
	ticker := time.NewTicker(bucketSweepInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		b.mu.Lock()
		for key, bucket := range b.local {
			if now.Sub(bucket.lastSeen) > bucketIdleTTL {
				delete(b.local, key)
			}
		}
		b.mu.Unlock()
	}
}
