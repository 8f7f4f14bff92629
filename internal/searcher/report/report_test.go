package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/corpustest"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/workerpool"
)

func build(t *testing.T, root string) *indexer.Corpus {
	t.Helper()
	pool := workerpool.New(2, nil)
	defer pool.Close()
	pending, err := ingestion.New(pool, tokenizer.NewNormalizer(nil, nil, 0), nil).
		Ingest(context.Background(), root, ".json")
	if err != nil {
		t.Fatal(err)
	}
	c, err := indexer.NewEngine(16, nil).Build(context.Background(), pending)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTopTermIsMostFrequent(t *testing.T) {
	var docs []corpustest.Doc
	for i := 0; i < 5; i++ {
		body := "data"
		if i < 3 {
			body += " model"
		}
		if i == 0 {
			body += " graph"
		}
		docs = append(docs, corpustest.Doc{File: fmt.Sprintf("%d.json", i), ID: fmt.Sprint(i), Title: "t", Body: body})
	}
	c := build(t, corpustest.Write(t, t.TempDir(), docs...))

	s, err := Collect(c, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Top) != 1 || s.Top[0] != (index.TermFrequency{Term: "data", Documents: 5}) {
		t.Errorf("top = %v, want [data 5]", s.Top)
	}

	var buf bytes.Buffer
	if err := WriteTopK(&buf, c.Index.TopK(DefaultTopK)); err != nil {
		t.Fatal(err)
	}
	if want := "data -> 5\nmodel -> 3\ngraph -> 1\n"; buf.String() != want {
		t.Errorf("report = %q, want %q", buf.String(), want)
	}
}

func TestWriteStats(t *testing.T) {
	c := build(t, corpustest.Animals(t))
	s, err := Collect(c, DefaultTopK)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteStats(&buf, s); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"documents: 3\n",
		"terms: 7\n",
		"words per document: 2.33\n",
		"persons: 1\n",
		"organizations: 1\n",
		"top 4 terms by document frequency:\n",
		"cat -> 2\n",
		"play -> 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteStatsEmptyCorpus(t *testing.T) {
	c := build(t, t.TempDir())
	s, err := Collect(c, DefaultTopK)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteStats(&buf, s); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "words per document: n/a") {
		t.Errorf("output:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "top") {
		t.Errorf("empty corpus printed a term report:\n%s", buf.String())
	}
}
