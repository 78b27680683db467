// AngelaMos | 2026
// client.go

// Package quote fetches the motivational quote shown on the student
// dashboard from a ZenQuotes compatible endpoint.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/flightlog/internal/config"
)

const cacheKey = "quote:current"

var ErrNoQuote = errors.New("no quote available")

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

type Source interface {
	Random(ctx context.Context) (*Quote, error)
}

// Cache is satisfied by core.Redis.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Client struct {
	url      string
	http     *http.Client
	cache    Cache
	cacheTTL time.Duration
}

// NewClient builds a Client. cache may be nil, in which case every call
// goes to the upstream.
func NewClient(cfg config.QuoteConfig, cache Cache) *Client {
	return &Client{
		url:      cfg.URL,
		http:     &http.Client{Timeout: cfg.Timeout},
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
	}
}

// zenQuote is one element of the upstream array payload.
type zenQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

func (c *Client) Random(ctx context.Context) (*Quote, error) {
	if c.cache != nil {
		var cached Quote
		hit, err := c.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			slog.WarnContext(ctx, "quote cache read failed", "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	q, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.SetJSON(ctx, cacheKey, q, c.cacheTTL); err != nil {
			slog.WarnContext(ctx, "quote cache write failed", "error", err)
		}
	}

	return q, nil
}

func (c *Client) fetch(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch quote: upstream status %d", resp.StatusCode)
	}

	var payload []zenQuote
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}

	if len(payload) == 0 || strings.TrimSpace(payload[0].Q) == "" {
		return nil, ErrNoQuote
	}

	return &Quote{
		Text:   strings.TrimSpace(payload[0].Q),
		Author: strings.TrimSpace(payload[0].A),
	}, nil
}
