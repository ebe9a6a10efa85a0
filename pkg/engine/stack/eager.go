package stack

// EagerStack is a fixed-capacity stack with eager slot initialization.
//
// All capacity slots are zero-initialized at construction (O(capacity)),
// trading construction cost for a fully materialized backing array. Behavior
// is otherwise indistinguishable from Stack: no reallocation, no allocation
// during Push or Pop, typed error on overflow.
type EagerStack[T any] struct {
	buf []T
	len int
}

// NewEager creates an empty EagerStack with the given fixed capacity,
// zero-initializing every slot up front.
func NewEager[T any](capacity int) *EagerStack[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &EagerStack[T]{
		buf: make([]T, capacity),
	}
}

// Push stores an item in the next slot. It fails with a CapacityError when
// the stack is full; the stack is left unchanged in that case.
func (s *EagerStack[T]) Push(item T) error {
	if s.len >= len(s.buf) {
		return &CapacityError{Capacity: len(s.buf)}
	}
	s.buf[s.len] = item
	s.len++
	return nil
}

// Pop removes and returns the top item. The second return is false when the
// stack is empty. The vacated slot is reset to the zero value.
func (s *EagerStack[T]) Pop() (T, bool) {
	var zero T
	if s.len == 0 {
		return zero, false
	}
	s.len--
	item := s.buf[s.len]
	s.buf[s.len] = zero
	return item, true
}

// Peek returns the top item without removing it.
func (s *EagerStack[T]) Peek() (T, bool) {
	var zero T
	if s.len == 0 {
		return zero, false
	}
	return s.buf[s.len-1], true
}

// Len returns the number of items currently on the stack.
func (s *EagerStack[T]) Len() int {
	return s.len
}

// Cap returns the fixed capacity.
func (s *EagerStack[T]) Cap() int {
	return len(s.buf)
}

// IsEmpty returns true if the stack holds no items.
func (s *EagerStack[T]) IsEmpty() bool {
	return s.len == 0
}
