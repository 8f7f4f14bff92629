// Package ingestion walks a corpus directory and parses every document file
// on the worker pool, returning one handle per file in submission order.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/document"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/workerpool"
)

// Pending is a submitted parse task. Seq is the submission ordinal.
type Pending struct {
	Path   string
	Seq    uint32
	Handle *workerpool.Handle[*document.Document]
}

// Pipeline submits parse tasks to a worker pool.
type Pipeline struct {
	pool       *workerpool.Pool
	normalizer *tokenizer.Normalizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Pipeline. A nil m disables instrumentation.
func New(pool *workerpool.Pool, normalizer *tokenizer.Normalizer, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		pool:       pool,
		normalizer: normalizer,
		metrics:    m,
		logger:     slog.Default().With("component", "ingestion"),
	}
}

// Ingest walks root and submits one parse task per document file.
func (p *Pipeline) Ingest(ctx context.Context, root string, ext string) ([]Pending, error) {
	paths, err := p.Walk(root, ext)
	if err != nil {
		return nil, err
	}
	return p.Submit(ctx, paths)
}

// Submit enqueues a parse task for each path, in order.
func (p *Pipeline) Submit(ctx context.Context, paths []string) ([]Pending, error) {
	pending := make([]Pending, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return pending, fmt.Errorf("submitting parse tasks: %w", err)
		}
		seq := uint32(i)
		pending = append(pending, Pending{
			Path: path,
			Seq:  seq,
			Handle: workerpool.Submit(p.pool, func() (*document.Document, error) {
				return p.Parse(path, seq)
			}),
		})
	}
	p.logger.Info("parse tasks submitted", "files", len(pending), "workers", p.pool.Size())
	return pending, nil
}

// Parse reads, decodes and normalizes the document at path.
func (p *Pipeline) Parse(path string, seq uint32) (*document.Document, error) {
	start := time.Now()
	doc, err := p.parse(path, seq)
	if p.metrics != nil {
		p.metrics.ParseDuration.Observe(time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "failed"
		}
		p.metrics.DocsParsedTotal.WithLabelValues(status).Inc()
	}
	return doc, err
}

func (p *Pipeline) parse(path string, seq uint32) (*document.Document, error) {
	src, err := document.ReadSource(path)
	if err != nil {
		return nil, err
	}
	doc := &document.Document{
		Seq:           seq,
		Path:          path,
		ID:            src.ID,
		Title:         src.Title,
		Body:          src.Body,
		Terms:         p.normalizer.Normalize(src.Body),
		Persons:       src.Persons,
		Organizations: src.Organizations,
	}
	p.logger.Debug("document parsed", "path", path, "doc_id", doc.ID, "terms", len(doc.Terms))
	return doc, nil
}
