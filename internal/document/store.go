package document

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Store is an arena of documents indexed by Seq. Slots for documents that
// failed to parse stay empty. Writes happen only during the merge step; the
// Store is read-only afterwards.
type Store struct {
	docs     []*Document
	universe *roaring.Bitmap
}

// NewStore creates a Store with room for capacity submissions.
func NewStore(capacity int) *Store {
	return &Store{
		docs:     make([]*Document, capacity),
		universe: roaring.New(),
	}
}

// Put records doc in its Seq slot, growing the arena if needed.
func (s *Store) Put(doc *Document) {
	if int(doc.Seq) >= len(s.docs) {
		grown := make([]*Document, int(doc.Seq)+1)
		copy(grown, s.docs)
		s.docs = grown
	}
	s.docs[doc.Seq] = doc
	s.universe.Add(doc.Seq)
}

// Get returns the document with the given Seq.
func (s *Store) Get(seq uint32) (*Document, bool) {
	if int(seq) >= len(s.docs) || s.docs[seq] == nil {
		return nil, false
	}
	return s.docs[seq], true
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	return int(s.universe.GetCardinality())
}

// Universe returns the set of every stored document. The bitmap is shared
// and must not be modified.
func (s *Store) Universe() *roaring.Bitmap {
	return s.universe
}

// Resolve maps a document set to documents in Seq order, skipping members
// the Store does not hold.
func (s *Store) Resolve(set *roaring.Bitmap) []*Document {
	out := make([]*Document, 0, set.GetCardinality())
	it := set.Iterator()
	for it.HasNext() {
		if doc, ok := s.Get(it.Next()); ok {
			out = append(out, doc)
		}
	}
	return out
}

// Titles returns the titles of docs in order.
func Titles(docs []*Document) []string {
	titles := make([]string, len(docs))
	for i, d := range docs {
		titles[i] = d.Title
	}
	return titles
}
