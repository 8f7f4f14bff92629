// Package hashtable implements a fixed-bucket-count chained hash map. It backs
// the per-document stem cache and the entity indexes.
package hashtable

import (
	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a key to a 64-bit hash.
type HashFunc[K comparable] func(K) uint64

type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// Table is a chained hash map with a bucket count fixed at construction.
// It is not safe for concurrent mutation; callers own a Table from a single
// goroutine or serialize writes themselves.
type Table[K comparable, V any] struct {
	buckets []*entry[K, V]
	hash    HashFunc[K]
	size    int
}

// New creates a Table with the given bucket count. A non-positive count is
// treated as one bucket.
func New[K comparable, V any](buckets int, hash HashFunc[K]) *Table[K, V] {
	if buckets < 1 {
		buckets = 1
	}
	return &Table[K, V]{
		buckets: make([]*entry[K, V], buckets),
		hash:    hash,
	}
}

// NewString creates a string-keyed Table hashed with xxhash.
func NewString[V any](buckets int) *Table[string, V] {
	return New[string, V](buckets, xxhash.Sum64String)
}

func (t *Table[K, V]) bucket(key K) int {
	return int(t.hash(key) % uint64(len(t.buckets)))
}

// Insert stores value under key, overwriting any previous value for the
// same key. Colliding keys are chained in the bucket.
func (t *Table[K, V]) Insert(key K, value V) {
	b := t.bucket(key)
	for e := t.buckets[b]; e != nil; e = e.next {
		if e.key == key {
			e.value = value
			return
		}
	}
	t.buckets[b] = &entry[K, V]{key: key, value: value, next: t.buckets[b]}
	t.size++
}

// Find returns a pointer to the stored value so callers can update it in
// place, or false if key is absent.
func (t *Table[K, V]) Find(key K) (*V, bool) {
	for e := t.buckets[t.bucket(key)]; e != nil; e = e.next {
		if e.key == key {
			return &e.value, true
		}
	}
	return nil, false
}

// Len returns the number of distinct keys.
func (t *Table[K, V]) Len() int {
	return t.size
}

// Buckets returns the fixed bucket count.
func (t *Table[K, V]) Buckets() int {
	return len(t.buckets)
}
