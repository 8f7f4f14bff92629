package index

import "github.com/RoaringBitmap/roaring/v2"

// Postings lists the documents (by Seq) containing a term, in insertion
// order.
type Postings []uint32

// Bitmap returns the postings as a new document set.
func (p Postings) Bitmap() *roaring.Bitmap {
	return roaring.BitmapOf(p...)
}

// TermFrequency pairs a term with the number of documents containing it.
type TermFrequency struct {
	Term      string
	Documents int
}
