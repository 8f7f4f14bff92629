// Package document defines the parsed document record, the on-disk source
// format it is decoded from, and the Store that owns every document for the
// lifetime of a run.
package document

// Document is the immutable result of parsing one source file. Seq is the
// submission ordinal assigned by the ingestion pipeline; every index refers
// to a document by Seq.
type Document struct {
	Seq           uint32
	Path          string
	ID            string
	Title         string
	Body          string
	Terms         []string
	Persons       []string
	Organizations []string
}
