package collections

import "slices"

// Trail is a stack of distinct values. It records the path of a depth-first
// walk: Push refuses a value already on the path, which is how the walk
// notices that it has come back around.
type Trail[T comparable] struct {
	items []T
	index map[T]int
}

// NewTrail creates an empty Trail
func NewTrail[T comparable]() *Trail[T] {
	return &Trail[T]{index: make(map[T]int)}
}

// Push appends v. It returns false, leaving the trail unchanged, when v is
// already on it.
func (t *Trail[T]) Push(v T) bool {
	if t.Has(v) {
		return false
	}
	t.index[v] = len(t.items)
	t.items = append(t.items, v)
	return true
}

// Pop removes and returns the last value
func (t *Trail[T]) Pop() (T, bool) {
	var zero T
	if len(t.items) == 0 {
		return zero, false
	}
	last := t.items[len(t.items)-1]
	t.items = t.items[:len(t.items)-1]
	delete(t.index, last)
	return last, true
}

// Has reports whether v is on the trail
func (t *Trail[T]) Has(v T) bool {
	_, ok := t.index[v]
	return ok
}

// Len returns the number of values on the trail
func (t *Trail[T]) Len() int {
	return len(t.items)
}

// Items returns a copy of the trail, oldest first
func (t *Trail[T]) Items() []T {
	return slices.Clone(t.items)
}

// Loop returns the part of the trail from v to the end, closed with v again,
// e.g. [b c b] for the trail [a b c]. It returns nil when v is not on the
// trail.
func (t *Trail[T]) Loop(v T) []T {
	i, ok := t.index[v]
	if !ok {
		return nil
	}
	return append(slices.Clone(t.items[i:]), v)
}
