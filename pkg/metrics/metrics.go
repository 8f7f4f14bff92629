// Package metrics defines the Prometheus metric collectors used by the
// ingestion pipeline and query processor, and exposes an HTTP handler for
// scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for a run.
type Metrics struct {
	DocsParsedTotal   *prometheus.CounterVec
	ParseDuration     prometheus.Histogram
	PoolQueueDepth    prometheus.Gauge
	PoolTasksTotal    *prometheus.CounterVec
	MergeDuration     prometheus.Histogram
	IndexTerms        prometheus.Gauge
	QueriesTotal      *prometheus.CounterVec
	QueryLatency      prometheus.Histogram
	QueryResultsCount prometheus.Histogram
	CacheHitsTotal    prometheus.Counter
	CacheMissesTotal  prometheus.Counter
	registry          prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry so repeated construction in tests never collides.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		DocsParsedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_parsed_total",
				Help: "Total documents parsed by status (ok, failed).",
			},
			[]string{"status"},
		),
		ParseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "document_parse_duration_seconds",
				Help:    "Time to read, decode and normalize one document.",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
		),
		PoolQueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "worker_pool_queue_depth",
				Help: "Number of tasks waiting for a free worker.",
			},
		),
		PoolTasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worker_pool_tasks_total",
				Help: "Total tasks completed by the worker pool by outcome (ok, error, panic).",
			},
			[]string{"outcome"},
		),
		MergeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_merge_duration_seconds",
				Help:    "Time spent merging parsed documents into the indexes.",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
		IndexTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_distinct_terms",
				Help: "Number of distinct terms in the inverted index.",
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		QueryLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Query evaluation latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
		),
		QueryResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of documents matched per query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 1000},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of result cache misses.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.DocsParsedTotal,
		m.ParseDuration,
		m.PoolQueueDepth,
		m.PoolTasksTotal,
		m.MergeDuration,
		m.IndexTerms,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
