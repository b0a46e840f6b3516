package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQueue is returned when popping from a heap with no entries.
	ErrEmptyQueue = errors.New("heap underflow: no keys in the priority queue")
	// ErrIndexOutOfRange is returned by UpdateKey for a position outside the heap.
	ErrIndexOutOfRange = errors.New("heap index out of range")
)

// Entry pairs an item with the key it is ordered by.
type Entry[T any] struct {
	Item T
	Key  float64
}

// MaxHeap is a zero-indexed, array-backed binary max-heap. Not safe for
// concurrent use: one owner mutates it at a time.
type MaxHeap[T any] struct {
	entries []Entry[T]
}

// NewMaxHeap creates an empty heap.
func NewMaxHeap[T any]() *MaxHeap[T] {
	return &MaxHeap[T]{}
}

func left(i int) int   { return 2*i + 1 }
func right(i int) int  { return 2*i + 2 }
func parent(i int) int { return (i - 1) / 2 }

// Len returns the number of entries.
func (h *MaxHeap[T]) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the backing array in heap order.
func (h *MaxHeap[T]) Entries() []Entry[T] {
	return append([]Entry[T](nil), h.entries...)
}

// Build replaces the heap contents with entries and heapifies bottom-up in O(n).
func (h *MaxHeap[T]) Build(entries []Entry[T]) {
	h.entries = append(h.entries[:0], entries...)
	for i := len(h.entries)/2 - 1; i >= 0; i-- {
		h.heapify(i)
	}
}

// Push appends the entry and sifts it up.
func (h *MaxHeap[T]) Push(item T, key float64) {
	h.entries = append(h.entries, Entry[T]{Item: item, Key: key})
	// Index is always valid here.
	_ = h.UpdateKey(len(h.entries)-1, key)
}

// Pop removes and returns the entry with the largest key.
func (h *MaxHeap[T]) Pop() (Entry[T], error) {
	if len(h.entries) == 0 {
		return Entry[T]{}, ErrEmptyQueue
	}
	top := h.entries[0]
	last := len(h.entries) - 1
	h.entries[0] = h.entries[last]
	h.entries[last] = Entry[T]{}
	h.entries = h.entries[:last]
	h.heapify(0)
	return top, nil
}

// Peek returns the entry with the largest key without removing it.
func (h *MaxHeap[T]) Peek() (Entry[T], error) {
	if len(h.entries) == 0 {
		return Entry[T]{}, ErrEmptyQueue
	}
	return h.entries[0], nil
}

// UpdateKey sets the key at position i and sifts upward only. Callers must
// only ever increase a key.
func (h *MaxHeap[T]) UpdateKey(i int, key float64) error {
	if i < 0 || i >= len(h.entries) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(h.entries))
	}
	h.entries[i].Key = key
	for i > 0 && h.entries[parent(i)].Key < h.entries[i].Key {
		p := parent(i)
		h.entries[p], h.entries[i] = h.entries[i], h.entries[p]
		i = p
	}
	return nil
}

// heapify sifts the entry at i down. Only strictly greater children swap, so
// equal keys carry no ordering guarantee.
func (h *MaxHeap[T]) heapify(i int) {
	n := len(h.entries)
	for {
		largest := i
		if l := left(i); l < n && h.entries[l].Key > h.entries[largest].Key {
			largest = l
		}
		if r := right(i); r < n && h.entries[r].Key > h.entries[largest].Key {
			largest = r
		}
		if largest == i {
			return
		}
		h.entries[i], h.entries[largest] = h.entries[largest], h.entries[i]
		i = largest
	}
}
