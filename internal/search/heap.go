package search

import "container/heap"

// frontierHeap is the container/heap backing store for the search
// priority queue: lowest PathOrderKey (best path) at the root.
type frontierHeap []SearchState

func (h frontierHeap) Len() int { return len(h) }
func (h frontierHeap) Less(i, j int) bool { return Less(KeyOf(h[i]), KeyOf(h[j])) }
func (h frontierHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap) Push(x any) {
	*h = append(*h, x.(SearchState))
}

func (h *frontierHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Frontier is the search engine's priority queue of open states.
type Frontier struct {
	items frontierHeap
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	f := &Frontier{}
	heap.Init(&f.items)
	return f
}

// Push inserts a state.
func (f *Frontier) Push(s SearchState) { heap.Push(&f.items, s) }

// Pop removes and returns the best (lowest PathOrderKey) state. ok is
// false if the frontier is empty.
func (f *Frontier) Pop() (SearchState, bool) {
	if f.items.Len() == 0 {
		return SearchState{}, false
	}
	return heap.Pop(&f.items).(SearchState), true
}

// Len reports the number of open states.
func (f *Frontier) Len() int { return f.items.Len() }

// resultHeap is a max-heap over PathOrderKey: the worst kept result sits
// at the root so it can be evicted in O(log k) when a better candidate
// arrives once the heap is at capacity.
type resultHeap []SearchState

func (h resultHeap) Len() int { return len(h) }
func (h resultHeap) Less(i, j int) bool { return Less(KeyOf(h[j]), KeyOf(h[i])) }
func (h resultHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *resultHeap) Push(x any) {
	*h = append(*h, x.(SearchState))
}

func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ResultHeap keeps the K best-ranked (lowest PathOrderKey) states seen,
// evicting the current worst kept result whenever a better candidate
// arrives after capacity is reached.
type ResultHeap struct {
	items    resultHeap
	capacity int
}

// NewResultHeap returns a ResultHeap bounded to capacity entries.
func NewResultHeap(capacity int) *ResultHeap {
	rh := &ResultHeap{capacity: capacity}
	heap.Init(&rh.items)
	return rh
}

// Offer considers s for inclusion in the kept set. It is always kept while
// under capacity; once at capacity it replaces the current worst kept
// result if s ranks better.
func (rh *ResultHeap) Offer(s SearchState) {
	if rh.capacity <= 0 {
		return
	}
	if rh.items.Len() < rh.capacity {
		heap.Push(&rh.items, s)
		return
	}
	if Less(KeyOf(s), KeyOf(rh.items[0])) {
		rh.items[0] = s
		heap.Fix(&rh.items, 0)
	}
}

// Len reports how many results are currently kept.
func (rh *ResultHeap) Len() int { return rh.items.Len() }

// Drain returns the kept results sorted best-first, emptying the heap.
func (rh *ResultHeap) Drain() []SearchState {
	out := make([]SearchState, rh.items.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&rh.items).(SearchState)
	}
	return out
}
