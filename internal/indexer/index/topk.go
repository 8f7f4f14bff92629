package index

import "container/heap"

// TopK returns the k terms with the most documents, most frequent first.
// Ties are broken by ascending term.
func (t *Tree) TopK(k int) []TermFrequency {
	if k <= 0 {
		return nil
	}
	h := &termHeap{}
	heap.Init(h)
	t.Walk(func(term string, postings Postings) bool {
		tf := TermFrequency{Term: term, Documents: len(postings)}
		if h.Len() < k {
			heap.Push(h, tf)
		} else if less((*h)[0], tf) {
			(*h)[0] = tf
			heap.Fix(h, 0)
		}
		return true
	})
	result := make([]TermFrequency, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(TermFrequency)
	}
	return result
}

// less orders a before b when a ranks lower.
func less(a, b TermFrequency) bool {
	if a.Documents != b.Documents {
		return a.Documents < b.Documents
	}
	return a.Term > b.Term
}

type termHeap []TermFrequency

func (h termHeap) Len() int { return len(h) }

func (h termHeap) Less(i, j int) bool { return less(h[i], h[j]) }

func (h termHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *termHeap) Push(x interface{}) {
	*h = append(*h, x.(TermFrequency))
}

func (h *termHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
