// AngelaMos | 2026
// client_test.go

package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/config"
)

type mapCache struct {
	values map[string][]byte
}

func (m *mapCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func newClient(url string, cache Cache) *Client {
	return NewClient(config.QuoteConfig{
		URL:      url,
		Timeout:  time.Second,
		CacheTTL: time.Hour,
	}, cache)
}

func TestRandomDecodesUpstream(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusOK, `[{"q":" Aviate, navigate, communicate. ","a":"Unknown","h":"<b>x</b>"}]`)

	q, err := newClient(srv.URL, nil).Random(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Aviate, navigate, communicate.", q.Text)
	assert.Equal(t, "Unknown", q.Author)
}

func TestRandomUsesCache(t *testing.T) {
	srv, calls := newUpstream(t, http.StatusOK, `[{"q":"Fly the airplane.","a":"Bob Hoover"}]`)
	c := newClient(srv.URL, &mapCache{values: map[string][]byte{}})

	for range 3 {
		q, err := c.Random(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bob Hoover", q.Author)
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestRandomFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "upstream error", status: http.StatusTooManyRequests, body: `{}`},
		{name: "empty array", status: http.StatusOK, body: `[]`},
		{name: "malformed", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newUpstream(t, tt.status, tt.body)

			q, err := newClient(srv.URL, nil).Random(context.Background())
			assert.Error(t, err)
			assert.Nil(t, q)
		})
	}
}
