package stack

import (
	"errors"
	"fmt"
)

var ErrUnderflow = errors.New("stack underflow")

type Stack[T any] struct {
	a []T
}

// NewStack creates a new stack instance holding elm, bottom first
func NewStack[T any](elm ...T) *Stack[T] {
	stack := Stack[T]{
		a: make([]T, 0, len(elm)+16),
	}
	stack.a = append(stack.a, elm...)

	return &stack
}

// Push adds an element to the top of the stack
func (s *Stack[T]) Push(elm T) {
	s.a = append(s.a, elm)
}

// Pop removes and returns the top element of the stack
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.a) == 0 {
		return zero, ErrUnderflow
	}

	elm := s.a[len(s.a)-1]
	s.a[len(s.a)-1] = zero
	s.a = s.a[:len(s.a)-1]

	return elm, nil
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() (T, error) {
	if len(s.a) == 0 {
		var zero T
		return zero, ErrUnderflow
	}

	return s.a[len(s.a)-1], nil
}

// Get returns the element at absolute index i (0 is the bottom)
func (s *Stack[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(s.a) {
		var zero T
		return zero, fmt.Errorf("index %d out of range [0,%d)", i, len(s.a))
	}

	return s.a[i], nil
}

// Set writes the element at absolute index i. Writing at Size() extends the
// stack by one, matching how a store just past the top behaves in an array.
func (s *Stack[T]) Set(i int, elm T) error {
	switch {
	case i >= 0 && i < len(s.a):
		s.a[i] = elm
	case i == len(s.a):
		s.a = append(s.a, elm)
	default:
		return fmt.Errorf("index %d out of range [0,%d]", i, len(s.a))
	}

	return nil
}

// Truncate drops every element at index n and above
func (s *Stack[T]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(s.a) {
		return
	}

	clear(s.a[n:])
	s.a = s.a[:n]
}

// Get the size of the stack
func (s *Stack[T]) Size() int {
	return len(s.a)
}

// Array returns a copy of the stack contents, bottom first
func (s *Stack[T]) Array() []T {
	return append([]T(nil), s.a...)
}
