// Package collections holds the small generic containers used while walking
// reference chains.
package collections

// Set is an unordered set of comparable values
type Set[T comparable] map[T]struct{}

// NewSet creates a Set holding vs
func NewSet[T comparable](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	s.Add(vs...)
	return s
}

// Add adds vs to the set
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Has reports whether v is in the set
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}
