package aggregate

import "container/heap"

// candidate is one article competing for a contributor slot.
type candidate struct {
	ArticleID int64
	Weight    float64
}

// worseThan orders candidates for eviction: lower weight loses, and on equal
// weight the higher article id loses (so ties rank by ascending id).
func (c candidate) worseThan(o candidate) bool {
	if c.Weight != o.Weight {
		return c.Weight < o.Weight
	}
	return c.ArticleID > o.ArticleID
}

// topK keeps the K best candidates using a fixed-capacity min-heap; the cost
// of the hot path is bounded by K, not by input size.
type topK struct {
	k    int
	heap candidateHeap
}

func newTopK(k int) *topK {
	return &topK{k: k, heap: make(candidateHeap, 0, k)}
}

// Add offers a candidate; it is kept only if it beats the current worst.
func (t *topK) Add(articleID int64, weight float64) {
	c := candidate{ArticleID: articleID, Weight: weight}
	if t.heap.Len() < t.k {
		heap.Push(&t.heap, c)
		return
	}
	if t.heap[0].worseThan(c) {
		t.heap[0] = c
		heap.Fix(&t.heap, 0)
	}
}

// Ranked drains the heap and returns the kept candidates best-first:
// descending weight, ties by ascending article id.
func (t *topK) Ranked() []candidate {
	out := make([]candidate, t.heap.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.heap).(candidate)
	}
	return out
}

// candidateHeap is a min-heap: the root is the current worst candidate.
type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].worseThan(h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
