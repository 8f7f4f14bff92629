// Package report renders corpus statistics and the most frequent index
// terms.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

// DefaultTopK is the number of terms in the frequency report.
const DefaultTopK = 25

// Stats summarizes a built corpus.
type Stats struct {
	Documents     int
	Failed        int
	Terms         int
	DistinctTerms int
	Ratio         float64
	HasRatio      bool
	Persons       int
	Organizations int
	Top           []index.TermFrequency
}

// Collect gathers Stats from c, including the topK most frequent terms.
func Collect(c *indexer.Corpus, topK int) (Stats, error) {
	s := Stats{
		Documents:     c.Index.TotalDocuments(),
		Failed:        len(c.Failures),
		Terms:         c.Index.TotalTerms(),
		DistinctTerms: c.Index.Len(),
		Persons:       c.Persons.Len(),
		Organizations: c.Organizations.Len(),
		Top:           c.Index.TopK(topK),
	}
	ratio, err := c.Index.WordDocumentRatio()
	switch {
	case err == nil:
		s.Ratio, s.HasRatio = ratio, true
	case !errors.Is(err, apperrors.ErrNoDocuments):
		return Stats{}, err
	}
	return s, nil
}

// WriteTopK writes one "term -> count" line per entry.
func WriteTopK(w io.Writer, top []index.TermFrequency) error {
	for _, tf := range top {
		if _, err := fmt.Fprintf(w, "%s -> %d\n", tf.Term, tf.Documents); err != nil {
			return err
		}
	}
	return nil
}

// WriteStats writes the corpus summary followed by the term report.
func WriteStats(w io.Writer, s Stats) error {
	ratio := "n/a"
	if s.HasRatio {
		ratio = fmt.Sprintf("%.2f", s.Ratio)
	}
	_, err := fmt.Fprintf(w,
		"documents: %d\nfailed: %d\nterms: %d\ndistinct terms: %d\nwords per document: %s\npersons: %d\norganizations: %d\n",
		s.Documents, s.Failed, s.Terms, s.DistinctTerms, ratio, s.Persons, s.Organizations)
	if err != nil {
		return err
	}
	if len(s.Top) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "top %d terms by document frequency:\n", len(s.Top)); err != nil {
		return err
	}
	return WriteTopK(w, s.Top)
}
