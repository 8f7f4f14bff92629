// Package executor evaluates parsed queries against a built corpus.
package executor

import (
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/document"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
)

// Result is an evaluated query.
type Result struct {
	Documents *roaring.Bitmap
	Elapsed   time.Duration
}

// Executor evaluates queries against a built Corpus. It only reads, so
// queries may run concurrently.
type Executor struct {
	corpus  *indexer.Corpus
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Executor. A nil m disables instrumentation.
func New(corpus *indexer.Corpus, m *metrics.Metrics) *Executor {
	return &Executor{
		corpus:  corpus,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
}

// Evaluate computes the matching document set:
//
//	(∩ AND ∪ ∪ OR) − ∪ NOT, then ∩ person ∩ organization
//
// With no AND terms the starting set is empty when OR terms exist and the
// whole corpus otherwise.
func (e *Executor) Evaluate(q *parser.Query) Result {
	start := time.Now()

	var result *roaring.Bitmap
	switch {
	case len(q.AndTerms) > 0:
		result = e.intersectPostings(q.AndTerms)
	case len(q.OrTerms) > 0:
		result = roaring.New()
	default:
		result = e.corpus.Documents.Universe().Clone()
	}
	if len(q.OrTerms) > 0 {
		result.Or(e.unionPostings(q.OrTerms))
	}
	if len(q.NotTerms) > 0 {
		result.AndNot(e.unionPostings(q.NotTerms))
	}
	if q.HasPerson() {
		set, _ := e.corpus.Persons.Lookup(q.Person)
		result.And(set)
	}
	if q.HasOrganization() {
		set, _ := e.corpus.Organizations.Lookup(q.Organization)
		result.And(set)
	}

	elapsed := time.Since(start)
	hits := result.GetCardinality()
	if e.metrics != nil {
		e.metrics.QueryLatency.Observe(elapsed.Seconds())
		e.metrics.QueryResultsCount.Observe(float64(hits))
		resultType := "hit"
		if hits == 0 {
			resultType = "zero_result"
		}
		e.metrics.QueriesTotal.WithLabelValues(resultType).Inc()
	}
	e.logger.Debug("query executed",
		"query", q.String(),
		"results", hits,
		"elapsed", elapsed,
	)
	return Result{Documents: result, Elapsed: elapsed}
}

// Search evaluates q and resolves the matches in submission order.
func (e *Executor) Search(q *parser.Query) ([]*document.Document, Result) {
	res := e.Evaluate(q)
	return e.corpus.Documents.Resolve(res.Documents), res
}

func (e *Executor) postings(term string) *roaring.Bitmap {
	if p, ok := e.corpus.Index.Search(term); ok {
		return p.Bitmap()
	}
	return roaring.New()
}

// intersectPostings returns the documents holding every term. A term missing
// from the index empties the result.
func (e *Executor) intersectPostings(terms []string) *roaring.Bitmap {
	sets := make([]*roaring.Bitmap, 0, len(terms))
	for _, term := range terms {
		set := e.postings(term)
		if set.IsEmpty() {
			return roaring.New()
		}
		sets = append(sets, set)
	}
	return roaring.FastAnd(sets...)
}

func (e *Executor) unionPostings(terms []string) *roaring.Bitmap {
	sets := make([]*roaring.Bitmap, 0, len(terms))
	for _, term := range terms {
		sets = append(sets, e.postings(term))
	}
	return roaring.FastOr(sets...)
}
