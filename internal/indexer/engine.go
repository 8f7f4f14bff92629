// Package indexer merges parsed documents into the inverted index, the
// entity indexes and the document store. Each shared structure has exactly
// one writer goroutine.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/document"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/entity"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
)

// Corpus is the result of a build. It is read-only and safe for concurrent
// queries.
type Corpus struct {
	Index         *index.Tree
	Persons       *entity.Index
	Organizations *entity.Index
	Documents     *document.Store
	Failures      []Failure
}

// Failure records a document that could not be parsed.
type Failure struct {
	Path string
	Err  error
}

// Engine builds a Corpus from pending parse tasks.
type Engine struct {
	entityBuckets int
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewEngine creates an Engine. A nil m disables instrumentation.
func NewEngine(entityBuckets int, m *metrics.Metrics) *Engine {
	return &Engine{
		entityBuckets: entityBuckets,
		metrics:       m,
		logger:        slog.Default().With("component", "indexer"),
	}
}

// Build awaits every handle in submission order and merges each document.
// A failed document is logged, recorded in Corpus.Failures and excluded from
// the corpus counters. Build only returns an error if ctx is cancelled.
func (e *Engine) Build(ctx context.Context, pending []ingestion.Pending) (*Corpus, error) {
	start := time.Now()
	c := &Corpus{
		Index:         index.New(),
		Persons:       entity.New("person", e.entityBuckets),
		Organizations: entity.New("organization", e.entityBuckets),
		Documents:     document.NewStore(len(pending)),
	}

	g, gctx := errgroup.WithContext(ctx)
	terms := make(chan *document.Document, 64)
	persons := make(chan *document.Document, 64)
	orgs := make(chan *document.Document, 64)

	g.Go(func() error {
		for doc := range terms {
			c.Documents.Put(doc)
			c.Index.AddTerms(len(doc.Terms))
			for _, term := range doc.Terms {
				c.Index.Insert(term, doc.Seq)
			}
		}
		return nil
	})
	g.Go(func() error {
		for doc := range persons {
			for _, name := range doc.Persons {
				c.Persons.Add(name, doc.Seq)
			}
		}
		return nil
	})
	g.Go(func() error {
		for doc := range orgs {
			for _, name := range doc.Organizations {
				c.Organizations.Add(name, doc.Seq)
			}
		}
		return nil
	})

	g.Go(func() error {
		defer close(terms)
		defer close(persons)
		defer close(orgs)
		for _, p := range pending {
			doc, err := p.Handle.Await(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.logger.Warn("skipping document", "path", p.Path, "error", err)
				c.Failures = append(c.Failures, Failure{Path: p.Path, Err: err})
				continue
			}
			for _, ch := range []chan<- *document.Document{terms, persons, orgs} {
				select {
				case ch <- doc:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	c.Index.SetTotalDocuments(c.Documents.Len())

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.MergeDuration.Observe(elapsed.Seconds())
		e.metrics.IndexTerms.Set(float64(c.Index.Len()))
	}
	e.logger.Info("index built",
		"documents", c.Index.TotalDocuments(),
		"failed", len(c.Failures),
		"distinct_terms", c.Index.Len(),
		"elapsed", elapsed,
	)
	for _, x := range []*entity.Index{c.Persons, c.Organizations} {
		e.logger.Debug("entity index built",
			"kind", x.Kind(),
			"entities", x.Len(),
			"buckets", x.Buckets(),
		)
	}
	return c, nil
}
