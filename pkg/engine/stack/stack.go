package stack

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is the sentinel wrapped by CapacityError.
var ErrCapacityExceeded = errors.New("stack capacity exceeded")

// CapacityError reports a push against a full stack. It carries the fixed
// capacity so callers can surface the violated bound in diagnostics.
type CapacityError struct {
	Capacity int
}

// Error returns the error message.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("stack capacity exceeded (capacity: %d)", e.Capacity)
}

// Unwrap returns ErrCapacityExceeded so callers can match with errors.Is.
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// Stack is a fixed-capacity stack with lazy slot initialization.
//
// Only slots [0, Len) are ever written or read; construction cost does not
// depend on capacity. The backing array is allocated once and never grows.
// The zero value is not usable; construct with New.
type Stack[T any] struct {
	buf []T
	cap int
}

// New creates an empty Stack with the given fixed capacity.
// A non-positive capacity yields a stack on which every push fails.
func New[T any](capacity int) *Stack[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Stack[T]{
		buf: make([]T, 0, capacity),
		cap: capacity,
	}
}

// Push appends an item. It fails with a CapacityError when the stack is full;
// the stack is left unchanged in that case.
func (s *Stack[T]) Push(item T) error {
	if len(s.buf) >= s.cap {
		return &CapacityError{Capacity: s.cap}
	}
	s.buf = append(s.buf, item)
	return nil
}

// Pop removes and returns the top item. The second return is false when the
// stack is empty. The vacated slot is zeroed so the stack never pins
// references to popped elements.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	n := len(s.buf)
	if n == 0 {
		return zero, false
	}
	item := s.buf[n-1]
	s.buf[n-1] = zero
	s.buf = s.buf[:n-1]
	return item, true
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	n := len(s.buf)
	if n == 0 {
		return zero, false
	}
	return s.buf[n-1], true
}

// Len returns the number of items currently on the stack.
func (s *Stack[T]) Len() int {
	return len(s.buf)
}

// Cap returns the fixed capacity.
func (s *Stack[T]) Cap() int {
	return s.cap
}

// IsEmpty returns true if the stack holds no items.
func (s *Stack[T]) IsEmpty() bool {
	return len(s.buf) == 0
}

// Reset empties the stack without releasing the backing array, zeroing the
// previously occupied prefix. The capacity is unchanged.
func (s *Stack[T]) Reset() {
	var zero T
	for i := range s.buf {
		s.buf[i] = zero
	}
	s.buf = s.buf[:0]
}
