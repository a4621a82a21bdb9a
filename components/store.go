package components

// Store is a dense component array indexed by Entity.
type Store[T any] struct {
	data []T
}

// Get returns the component value for e, or the zero value when e has never
// been written.
func (s *Store[T]) Get(e Entity) T {
	if int(e) >= len(s.data) {
		var zero T
		return zero
	}
	return s.data[e]
}

// Set writes the component value for e, growing the array as needed.
func (s *Store[T]) Set(e Entity, v T) {
	s.grow(e)
	s.data[e] = v
}

// Reset zeroes the slot for e so a reused handle starts clean.
func (s *Store[T]) Reset(e Entity) {
	if int(e) < len(s.data) {
		var zero T
		s.data[e] = zero
	}
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Clone returns an independent copy of the store.
func (s *Store[T]) Clone() Store[T] {
	return Store[T]{data: append([]T(nil), s.data...)}
}

// CopyFrom replaces the content of s with a copy of other.
func (s *Store[T]) CopyFrom(other *Store[T]) {
	s.data = append(s.data[:0], other.data...)
}

func (s *Store[T]) grow(e Entity) {
	if int(e) < len(s.data) {
		return
	}
	n := int(e) + 1
	if n <= cap(s.data) {
		old := len(s.data)
		s.data = s.data[:n]
		clear(s.data[old:])
		return
	}
	grown := make([]T, n, max(n, 2*cap(s.data)))
	copy(grown, s.data)
	s.data = grown
}
