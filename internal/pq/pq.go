// Package pq provides a generic heap-based priority queue for the A*
// and RRR search loops. It does not support decrease-key: callers that
// need to lower an item's priority push a new entry for the same
// logical item and discard the stale one at pop time by checking
// whether the popped entry is still the best known one for that item.
package pq

import "container/heap"

// Queue is a min-heap: Pop returns the entry with the lowest priority.
type Queue[T any] struct {
	data minHeap[T]
}

type entry[T any] struct {
	value    T
	priority float32
}

type minHeap[T any] []*entry[T]

func (h minHeap[T]) Len() int { return len(h) }

func (h minHeap[T]) Less(i, j int) bool {
	return h[i].priority < h[j].priority
}

func (h *minHeap[T]) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
}

func (h *minHeap[T]) Push(x any) {
	*h = append(*h, x.(*entry[T]))
}

func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Push inserts value with the given priority. Pushing the same
// logical item twice with different priorities is allowed; both
// entries coexist until popped.
func (pq *Queue[T]) Push(value T, priority float32) {
	heap.Push(&pq.data, &entry[T]{value: value, priority: priority})
}

// Len returns the number of entries currently queued.
func (pq *Queue[T]) Len() int {
	return len(pq.data)
}

// Empty reports whether the queue has no entries.
func (pq *Queue[T]) Empty() bool {
	return len(pq.data) == 0
}

// Pop removes and returns the lowest-priority entry and its priority.
// Returns ok=false if the queue is empty.
func (pq *Queue[T]) Pop() (value T, priority float32, ok bool) {
	if pq.Empty() {
		return value, 0, false
	}
	e := heap.Pop(&pq.data).(*entry[T])
	return e.value, e.priority, true
}
