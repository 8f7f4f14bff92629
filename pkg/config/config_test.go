package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Corpus.Extension != ".json" {
		t.Errorf("extension = %q, want .json", cfg.Corpus.Extension)
	}
	if cfg.Indexer.StemCacheBuckets != 50 {
		t.Errorf("stemCacheBuckets = %d, want 50", cfg.Indexer.StemCacheBuckets)
	}
	if cfg.Search.TopK != 25 {
		t.Errorf("topK = %d, want 25", cfg.Search.TopK)
	}
	if cfg.Indexer.Workers < 1 {
		t.Errorf("workers = %d, want >= 1", cfg.Indexer.Workers)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
indexer:
  workers: 3
search:
  topK: 10
redis:
  enabled: true
  cacheTTL: 30s
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CS_SEARCH_TOPK", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indexer.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Indexer.Workers)
	}
	if cfg.Search.TopK != 7 {
		t.Errorf("topK = %d, want env override 7", cfg.Search.TopK)
	}
	if !cfg.Redis.Enabled || cfg.Redis.CacheTTL != 30*time.Second {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Indexer.StemCacheBuckets != 50 {
		t.Errorf("unset field lost its default: %d", cfg.Indexer.StemCacheBuckets)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("indexer: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	zero := filepath.Join(dir, "zero.yaml")
	if err := os.WriteFile(zero, []byte("indexer:\n  workers: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"malformed yaml", bad},
		{"zero workers", zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
