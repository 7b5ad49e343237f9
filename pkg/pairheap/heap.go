// Package pairheap implements a pairing heap, a meldable priority queue with
// O(1) insert and meld and O(log n) amortized extract-min.
package pairheap

type node[T any] struct {
	value   T
	sibling *node[T]
	child   *node[T]
}

// Heap is a min-heap ordered by a caller supplied comparator. compare
// returns a negative number when a sorts before b.
type Heap[T any] struct {
	root    *node[T]
	size    int
	compare func(a, b T) int
}

// New creates an empty heap.
func New[T any](compare func(a, b T) int) *Heap[T] {
	return &Heap[T]{compare: compare}
}

// Add inserts a value and returns the heap for chaining.
func (h *Heap[T]) Add(v T) *Heap[T] {
	h.root = h.meld(h.root, &node[T]{value: v})
	h.size++
	return h
}

// Push inserts every value.
func (h *Heap[T]) Push(values ...T) {
	for _, v := range values {
		h.Add(v)
	}
}

// Peek returns the minimum without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if h.root == nil {
		var zero T
		return zero, false
	}
	return h.root.value, true
}

// Dequeue removes and returns the minimum.
func (h *Heap[T]) Dequeue() (T, bool) {
	if h.root == nil {
		var zero T
		return zero, false
	}
	n := h.root
	h.root = h.mergeSiblings(n.child)
	h.size--
	n.child = nil
	return n.value, true
}

// Len returns the number of queued values.
func (h *Heap[T]) Len() int {
	return h.size
}

// Merge melds other into h. other is left empty.
func (h *Heap[T]) Merge(other *Heap[T]) *Heap[T] {
	if other == nil || other == h {
		return h
	}
	h.root = h.meld(h.root, other.root)
	h.size += other.size
	other.root = nil
	other.size = 0
	return h
}

// Drain dequeues every value in order.
func (h *Heap[T]) Drain() []T {
	out := make([]T, 0, h.size)
	for h.root != nil {
		v, _ := h.Dequeue()
		out = append(out, v)
	}
	return out
}

func (h *Heap[T]) meld(a, b *node[T]) *node[T] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if h.compare(b.value, a.value) < 0 {
		a, b = b, a
	}
	b.sibling = a.child
	a.child = b
	return a
}

// mergeSiblings is the two pass combine: pair left to right, then fold the
// pairs right to left. Iterative so long sibling lists cannot blow the stack.
func (h *Heap[T]) mergeSiblings(first *node[T]) *node[T] {
	if first == nil {
		return nil
	}
	var pairs []*node[T]
	for n := first; n != nil; {
		a := n
		b := a.sibling
		if b == nil {
			a.sibling = nil
			pairs = append(pairs, a)
			break
		}
		n = b.sibling
		a.sibling = nil
		b.sibling = nil
		pairs = append(pairs, h.meld(a, b))
	}
	root := pairs[len(pairs)-1]
	for i := len(pairs) - 2; i >= 0; i-- {
		root = h.meld(pairs[i], root)
	}
	return root
}
