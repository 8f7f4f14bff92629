// Package corpustest writes small document corpora to disk for tests.
package corpustest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Doc describes one document file.
type Doc struct {
	File          string
	ID            string
	Title         string
	Body          string
	Persons       []string
	Organizations []string
}

type named struct {
	Name string `json:"name"`
}

// Write creates every doc under dir, creating parent directories, and returns
// dir.
func Write(t testing.TB, dir string, docs ...Doc) string {
	t.Helper()
	for _, d := range docs {
		rec := map[string]any{
			"uuid":  d.ID,
			"title": d.Title,
			"text":  d.Body,
			"entities": map[string]any{
				"persons":       toNamed(d.Persons),
				"organizations": toNamed(d.Organizations),
			},
		}
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatal(err)
		}
		WriteRaw(t, dir, d.File, string(data))
	}
	return dir
}

// WriteRaw writes content verbatim to dir/name.
func WriteRaw(t testing.TB, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func toNamed(names []string) []named {
	out := make([]named, len(names))
	for i, n := range names {
		out[i] = named{Name: n}
	}
	return out
}

// Animals is the three-document corpus used across packages.
func Animals(t testing.TB) string {
	return Write(t, t.TempDir(),
		Doc{File: "a/doc1.json", ID: "doc1", Title: "Cat", Body: "The cat sat"},
		Doc{File: "a/doc2.json", ID: "doc2", Title: "Dog", Body: "The dog sat", Persons: []string{"Jane Doe"}},
		Doc{File: "b/doc3.json", ID: "doc3", Title: "Both", Body: "A cat and a dog played", Organizations: []string{"Acme Corp"}},
	)
}
