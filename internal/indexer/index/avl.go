// Package index implements the inverted index: an AVL tree keyed by term
// whose values are posting lists, plus the corpus-level counters.
package index

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

type node struct {
	term     string
	postings Postings
	left     *node
	right    *node
	height   int
}

// Tree is an AVL-balanced inverted index. Inserts must be serialized by the
// caller; once building is done the Tree may be read concurrently.
type Tree struct {
	root           *node
	terms          int
	totalDocuments int
	totalTerms     int
}

func New() *Tree {
	return &Tree{}
}

// Insert appends doc to the postings of term, creating the term if needed.
func (t *Tree) Insert(term string, doc uint32) {
	t.root = t.insert(t.root, term, doc)
}

func (t *Tree) insert(n *node, term string, doc uint32) *node {
	if n == nil {
		t.terms++
		return &node{term: term, postings: Postings{doc}}
	}
	switch {
	case term < n.term:
		n.left = t.insert(n.left, term, doc)
	case term > n.term:
		n.right = t.insert(n.right, term, doc)
	default:
		n.postings = append(n.postings, doc)
		return n
	}
	return balance(n)
}

// Search returns the postings for term.
func (t *Tree) Search(term string) (Postings, bool) {
	n := t.root
	for n != nil {
		switch {
		case term < n.term:
			n = n.left
		case term > n.term:
			n = n.right
		default:
			return n.postings, true
		}
	}
	return nil, false
}

// Walk visits every term in ascending order until fn returns false.
func (t *Tree) Walk(fn func(term string, postings Postings) bool) {
	walk(t.root, fn)
}

func walk(n *node, fn func(string, Postings) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, fn) && fn(n.term, n.postings) && walk(n.right, fn)
}

// Len returns the number of distinct terms.
func (t *Tree) Len() int { return t.terms }

// Height returns the height of the tree; an empty tree has height -1.
func (t *Tree) Height() int { return height(t.root) }

// SetTotalDocuments records how many documents were merged.
func (t *Tree) SetTotalDocuments(n int) { t.totalDocuments = n }

// AddTerms adds a merged document's term count to the corpus total.
func (t *Tree) AddTerms(n int) { t.totalTerms += n }

func (t *Tree) TotalDocuments() int { return t.totalDocuments }

func (t *Tree) TotalTerms() int { return t.totalTerms }

// WordDocumentRatio returns the average number of unique terms per document.
func (t *Tree) WordDocumentRatio() (float64, error) {
	if t.totalDocuments == 0 {
		return 0, fmt.Errorf("word/document ratio: %w", apperrors.ErrNoDocuments)
	}
	return float64(t.totalTerms) / float64(t.totalDocuments), nil
}

func height(n *node) int {
	if n == nil {
		return -1
	}
	return n.height
}

func fixHeight(n *node) {
	n.height = 1 + max(height(n.left), height(n.right))
}

func balance(n *node) *node {
	fixHeight(n)
	switch bf := height(n.left) - height(n.right); {
	case bf > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n
	fixHeight(n)
	fixHeight(l)
	return l
}

func rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n
	fixHeight(n)
	fixHeight(r)
	return r
}
