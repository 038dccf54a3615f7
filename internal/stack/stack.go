// Package stack provides the last-in-first-out sequence every render scope is
// built on.
package stack

// Stack is a LIFO sequence addressed from the top: depth 0 is the most
// recently pushed value. The zero value is ready to use.
type Stack[T any] struct {
	items []T
}

// New returns an empty stack with room for capacity entries.
func New[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

// Push places value on top of the stack.
func (s *Stack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Pop removes and returns the top value. ok is false when the stack is empty.
func (s *Stack[T]) Pop() (value T, ok bool) {
	if len(s.items) == 0 {
		return value, false
	}
	last := len(s.items) - 1
	value = s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return value, true
}

// Peek returns the value depth levels below the top. ok is false when depth
// is negative or reaches past the bottom.
func (s *Stack[T]) Peek(depth int) (value T, ok bool) {
	idx := len(s.items) - 1 - depth
	if depth < 0 || idx < 0 {
		return value, false
	}
	return s.items[idx], true
}

// Top is Peek(0).
func (s *Stack[T]) Top() (T, bool) {
	return s.Peek(0)
}

// Len reports the number of entries.
func (s *Stack[T]) Len() int {
	return len(s.items)
}
