// Package entity maps named entities (people, organizations) to the set of
// documents that mention them.
package entity

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/hashtable"
)

// Index is a hash-table-backed map from normalized entity name to document
// set. Add must be serialized by the caller; Lookup is safe for concurrent
// use once building is done.
type Index struct {
	kind    string
	entries *hashtable.Table[string, *roaring.Bitmap]
}

func New(kind string, buckets int) *Index {
	return &Index{
		kind:    kind,
		entries: hashtable.NewString[*roaring.Bitmap](buckets),
	}
}

// Kind names what the index holds, e.g. "person".
func (x *Index) Kind() string { return x.kind }

// Add records that doc mentions name. Blank names are ignored.
func (x *Index) Add(name string, doc uint32) {
	key := NormalizeName(name)
	if key == "" {
		return
	}
	if set, ok := x.entries.Find(key); ok {
		(*set).Add(doc)
		return
	}
	x.entries.Insert(key, roaring.BitmapOf(doc))
}

// Lookup returns the documents mentioning name. An unknown name yields an
// empty set and false. The returned bitmap must not be modified.
func (x *Index) Lookup(name string) (*roaring.Bitmap, bool) {
	if set, ok := x.entries.Find(NormalizeName(name)); ok {
		return *set, true
	}
	return roaring.New(), false
}

// Len returns the number of distinct entities.
func (x *Index) Len() int { return x.entries.Len() }

// Buckets returns the bucket count of the backing table.
func (x *Index) Buckets() int { return x.entries.Buckets() }

// NormalizeName lower-cases name and collapses runs of whitespace.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
