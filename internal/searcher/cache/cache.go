// Package cache stores query results keyed by corpus fingerprint and
// canonical query, so repeated runs over an unchanged corpus can skip
// building the index.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/redis"
)

const keyPrefix = "search:"

// Backend is the key/value store behind the cache. A missing key is reported
// with an error for which redis.IsNilError is true.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Entry is a cached query result.
type Entry struct {
	Query  string   `json:"query"`
	Titles []string `json:"titles"`
}

type QueryCache struct {
	backend Backend
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a QueryCache. A nil m disables instrumentation.
func New(backend Backend, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		backend: backend,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// Get looks up the result of q over the corpus identified by fingerprint.
// Backend errors are logged and reported as a miss.
func (c *QueryCache) Get(ctx context.Context, fingerprint string, q *parser.Query) (*Entry, bool) {
	key := buildKey(fingerprint, q)
	data, err := c.backend.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "query", q.String(), "key", key)
	return &entry, true
}

// Set stores entry. Failures are logged and otherwise ignored.
func (c *QueryCache) Set(ctx context.Context, fingerprint string, q *parser.Query, entry *Entry) {
	key := buildKey(fingerprint, q)
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached entry, or runs computeFn once per key
// across concurrent callers and caches its result. The bool reports a hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	fingerprint string,
	q *parser.Query,
	computeFn func() (*Entry, error),
) (*Entry, bool, error) {
	if entry, ok := c.Get(ctx, fingerprint, q); ok {
		return entry, true, nil
	}
	key := buildKey(fingerprint, q)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		entry, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, fingerprint, q, entry)
		return entry, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*Entry), false, nil
}

func (c *QueryCache) miss() {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func buildKey(fingerprint string, q *parser.Query) string {
	raw := fmt.Sprintf("%s|%s", fingerprint, q.String())
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
