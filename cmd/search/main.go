// Command search indexes a directory of JSON documents and prints the title
// of every document matching a boolean search expression.
//
// Usage:
//
//	search [flags] <search-expression> <corpus-root>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/document"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/report"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/workerpool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file")
	workers := fs.Int("workers", 0, "number of parse workers (default: config or CPU count)")
	stats := fs.Bool("stats", false, "print corpus statistics and the top terms after the results")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: search [flags] <search-expression> <corpus-root>\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return apperrors.ExitUsage
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return apperrors.ExitUsage
	}
	expr, root := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return apperrors.ExitFailure
	}
	if *workers > 0 {
		cfg.Indexer.Workers = *workers
	}
	logger.SetupWriter(stderr, cfg.Logging.Level, cfg.Logging.Format)

	s := &session{
		cfg:        cfg,
		metrics:    metrics.New(nil),
		normalizer: tokenizer.NewNormalizer(tokenizer.EnglishStopWords, tokenizer.EnglishStem, cfg.Indexer.StemCacheBuckets),
		ready:      health.NewStage("indexing"),
		checker:    health.NewChecker(),
	}
	s.checker.Register("index", s.ready.Check)
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, s.metrics, map[string]http.Handler{
			"/health/ready": s.checker.ReadyHandler(),
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	if err := s.search(ctx, expr, root, *stats, stdout); err != nil {
		fmt.Fprintf(stderr, "search: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

type session struct {
	cfg        *config.Config
	metrics    *metrics.Metrics
	normalizer *tokenizer.Normalizer
	ready      *health.Stage
	checker    *health.Checker
}

func (s *session) search(ctx context.Context, expr, root string, stats bool, stdout io.Writer) error {
	q, err := parser.New(s.normalizer).Parse(expr)
	if err != nil {
		return err
	}

	pool := workerpool.New(s.cfg.Indexer.Workers, s.metrics)
	defer pool.Close()
	pipeline := ingestion.New(pool, s.normalizer, s.metrics)
	paths, err := pipeline.Walk(root, s.cfg.Corpus.Extension)
	if err != nil {
		return err
	}

	var corpus *indexer.Corpus
	var elapsed time.Duration
	compute := func() (*cache.Entry, error) {
		built, err := s.build(ctx, pipeline, paths)
		if err != nil {
			return nil, err
		}
		corpus = built
		docs, res := executor.New(corpus, s.metrics).Search(q)
		elapsed = res.Elapsed
		slog.Info("query processed",
			"query", q.String(),
			"results", len(docs),
			"elapsed", res.Elapsed,
		)
		return &cache.Entry{Query: q.String(), Titles: document.Titles(docs)}, nil
	}

	var qc *cache.QueryCache
	if !stats {
		var closeCache func()
		qc, closeCache = s.openCache(ctx)
		defer closeCache()
	}

	var entry *cache.Entry
	if qc != nil {
		fingerprint, err := ingestion.Fingerprint(paths)
		if err != nil {
			return err
		}
		var hit bool
		entry, hit, err = qc.GetOrCompute(ctx, fingerprint, q, compute)
		if err != nil {
			return err
		}
		if hit {
			slog.Info("served from cache", "query", q.String(), "results", len(entry.Titles))
		}
	} else {
		entry, err = compute()
		if err != nil {
			return err
		}
	}

	for _, title := range entry.Titles {
		if _, err := fmt.Fprintln(stdout, title); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
	}

	if stats && corpus != nil {
		st, err := report.Collect(corpus, s.cfg.Search.TopK)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nquery time: %s\n", elapsed)
		if err := report.WriteStats(stdout, st); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}
	return nil
}

func (s *session) build(ctx context.Context, pipeline *ingestion.Pipeline, paths []string) (*indexer.Corpus, error) {
	pending, err := pipeline.Submit(ctx, paths)
	if err != nil {
		return nil, err
	}
	corpus, err := indexer.NewEngine(s.cfg.Indexer.EntityBuckets, s.metrics).Build(ctx, pending)
	if err != nil {
		return nil, err
	}
	s.ready.Complete()
	return corpus, nil
}

// openCache connects to Redis when caching is enabled. Connection failures
// disable caching for the run.
func (s *session) openCache(ctx context.Context) (*cache.QueryCache, func()) {
	if !s.cfg.Redis.Enabled {
		return nil, func() {}
	}
	var client *pkgredis.Client
	err := resilience.Do(ctx, "redis connect", resilience.Policy{MaxAttempts: s.cfg.Redis.ConnectAttempts}, func(ctx context.Context) error {
		c, err := pkgredis.NewClient(ctx, s.cfg.Redis)
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		slog.Warn("redis unavailable, result caching disabled", "error", err)
		return nil, func() {}
	}
	s.checker.Register("redis", client.HealthCheck)
	slog.Info("result cache enabled", "addr", s.cfg.Redis.Addr, "ttl", s.cfg.Redis.CacheTTL)
	return cache.New(client, s.cfg.Redis.CacheTTL, s.metrics), func() { client.Close() }
}
