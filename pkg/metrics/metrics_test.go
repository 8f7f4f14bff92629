package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.DocsParsedTotal.WithLabelValues("ok").Add(3)
	m.DocsParsedTotal.WithLabelValues("failed").Inc()
	m.CacheHitsTotal.Inc()

	if got := testutil.ToFloat64(m.DocsParsedTotal.WithLabelValues("ok")); got != 3 {
		t.Errorf("ok docs = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.CacheHitsTotal); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.DocsParsedTotal); n != 2 {
		t.Errorf("series = %d, want 2", n)
	}
}

func TestNewWithNilRegistryIsIsolated(t *testing.T) {
	a := New(nil)
	b := New(nil)
	a.CacheMissesTotal.Inc()
	if got := testutil.ToFloat64(b.CacheMissesTotal); got != 0 {
		t.Errorf("registries leaked state: %v", got)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New(nil)
	m.IndexTerms.Set(42)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "index_distinct_terms 42") {
		t.Errorf("scrape output missing gauge:\n%s", rec.Body.String())
	}
}
