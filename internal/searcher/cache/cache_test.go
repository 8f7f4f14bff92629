package cache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type memoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, goredis.Nil
	}
	return v, nil
}

func (m *memoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func parse(t *testing.T, expr string) *parser.Query {
	t.Helper()
	q, err := parser.New(tokenizer.NewNormalizer(nil, nil, 0)).Parse(expr)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestGetOrCompute(t *testing.T) {
	backend := newMemoryBackend()
	m := metrics.New(nil)
	c := New(backend, time.Minute, m)
	ctx := context.Background()

	var calls atomic.Int32
	compute := func() (*Entry, error) {
		calls.Add(1)
		return &Entry{Query: "AND(cat)", Titles: []string{"Cat", "Both"}}, nil
	}

	first, hit, err := c.GetOrCompute(ctx, "fp1", parse(t, "cats"), compute)
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	// Same canonical query.
	second, hit, err := c.GetOrCompute(ctx, "fp1", parse(t, "cat"), compute)
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached %+v != computed %+v", second, first)
	}
	if calls.Load() != 1 {
		t.Errorf("compute ran %d times, want 1", calls.Load())
	}

	// A changed corpus misses.
	if _, hit, _ := c.GetOrCompute(ctx, "fp2", parse(t, "cat"), compute); hit {
		t.Error("different fingerprint hit")
	}
	if got := testutil.ToFloat64(m.CacheHitsTotal); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheMissesTotal); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
	for key, ttl := range backend.ttls {
		if !strings.HasPrefix(key, keyPrefix) || ttl != time.Minute {
			t.Errorf("stored %q with ttl %v", key, ttl)
		}
	}
}

func TestComputeErrorNotCached(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend, time.Minute, nil)
	boom := errors.New("boom")

	_, _, err := c.GetOrCompute(context.Background(), "fp", parse(t, "cat"), func() (*Entry, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(backend.data) != 0 {
		t.Errorf("failed computation cached: %v", backend.data)
	}
}

func TestBackendFailureIsAMiss(t *testing.T) {
	backend := newMemoryBackend()
	backend.err = errors.New("connection refused")
	c := New(backend, time.Minute, nil)

	entry, hit, err := c.GetOrCompute(context.Background(), "fp", parse(t, "cat"), func() (*Entry, error) {
		return &Entry{Titles: []string{"Cat"}}, nil
	})
	if err != nil || hit || len(entry.Titles) != 1 {
		t.Errorf("entry=%+v hit=%v err=%v", entry, hit, err)
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend, time.Minute, nil)
	q := parse(t, "cat")
	backend.data[buildKey("fp", q)] = []byte("{not json")

	if _, ok := c.Get(context.Background(), "fp", q); ok {
		t.Error("corrupt entry reported as hit")
	}
}
