// Package tokenizer turns raw document text into index terms. Each
// whitespace-delimited token is stop-word filtered, stripped to ASCII
// letters, lower-cased, stemmed through a per-document cache, filtered again
// and de-duplicated.
package tokenizer

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/hashtable"
	"github.com/kljensen/snowball/english"
)

// DefaultStemCacheBuckets sizes the per-document stem cache.
const DefaultStemCacheBuckets = 50

// StopWords is a static membership test over a fixed word list.
type StopWords interface {
	IsStopWord(word string) bool
}

// StemFunc maps a lower-case word to its stem. It must be pure.
type StemFunc func(word string) string

// EnglishStem is the Snowball (Porter2) English stemmer.
func EnglishStem(word string) string {
	return english.Stem(word, true)
}

// Normalizer holds the stop-word and stemming services. It is immutable and
// safe for concurrent use; per-document state lives in Normalize.
type Normalizer struct {
	stopWords    StopWords
	stem         StemFunc
	cacheBuckets int
}

// NewNormalizer builds a Normalizer. Nil services fall back to the English
// defaults and a non-positive cacheBuckets uses DefaultStemCacheBuckets.
func NewNormalizer(stopWords StopWords, stem StemFunc, cacheBuckets int) *Normalizer {
	if stopWords == nil {
		stopWords = EnglishStopWords
	}
	if stem == nil {
		stem = EnglishStem
	}
	if cacheBuckets < 1 {
		cacheBuckets = DefaultStemCacheBuckets
	}
	return &Normalizer{
		stopWords:    stopWords,
		stem:         stem,
		cacheBuckets: cacheBuckets,
	}
}

// Normalize returns the unique terms of text in order of first occurrence.
// Tokens that reduce to nothing are dropped silently.
func (n *Normalizer) Normalize(text string) []string {
	cache := hashtable.NewString[string](n.cacheBuckets)
	words := strings.Fields(text)
	seen := make(map[string]struct{}, len(words)/2)
	terms := make([]string, 0, len(words)/2)
	for _, raw := range words {
		term, ok := n.normalize(raw, cache)
		if !ok {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// NormalizeToken applies the per-token rules to a single word, as used for
// query keywords. It reports false if the word normalizes to nothing.
func (n *Normalizer) NormalizeToken(raw string) (string, bool) {
	return n.normalize(raw, nil)
}

func (n *Normalizer) normalize(raw string, cache *hashtable.Table[string, string]) (string, bool) {
	if n.stopWords.IsStopWord(raw) {
		return "", false
	}
	word := asciiLower(raw)
	if word == "" {
		return "", false
	}

	var stemmed string
	if cache != nil {
		if s, ok := cache.Find(word); ok {
			stemmed = *s
		} else {
			stemmed = n.stem(word)
			cache.Insert(word, stemmed)
		}
	} else {
		stemmed = n.stem(word)
	}

	if stemmed == "" || n.stopWords.IsStopWord(stemmed) {
		return "", false
	}
	return stemmed, true
}

// asciiLower keeps only ASCII letters of s, lower-cased.
func asciiLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
