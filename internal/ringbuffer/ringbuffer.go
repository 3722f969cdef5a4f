// Package ringbuffer provides a fixed-capacity circular history store.
package ringbuffer

import "fmt"

// Buffer keeps the most recent Cap() values appended to it. Once full, each
// Append overwrites the oldest value in place.
//
// Buffer is not safe for concurrent use; owners guard it themselves.
type Buffer[T any] struct {
	items []T
	head  int
	count int
}

// New creates a buffer holding at most capacity values. It panics if
// capacity is not positive.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("ringbuffer: capacity must be positive, got %d", capacity))
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Append stores v, evicting the oldest value when the buffer is full.
func (b *Buffer[T]) Append(v T) {
	if b.count < len(b.items) {
		b.items[(b.head+b.count)%len(b.items)] = v
		b.count++
		return
	}
	b.items[b.head] = v
	b.head = (b.head + 1) % len(b.items)
}

// Len returns the number of values currently retained.
func (b *Buffer[T]) Len() int {
	return b.count
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.items)
}

// At returns the i-th retained value, 0 being the oldest. It panics if i is
// out of range.
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("ringbuffer: index %d out of range [0,%d)", i, b.count))
	}
	return b.items[(b.head+i)%len(b.items)]
}

// Last returns the newest value, or false if the buffer is empty.
func (b *Buffer[T]) Last() (T, bool) {
	if b.count == 0 {
		var zero T
		return zero, false
	}
	return b.At(b.count - 1), true
}

// Values copies the retained values in chronological order.
func (b *Buffer[T]) Values() []T {
	out := make([]T, b.count)
	for i := range out {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Reset drops every value; capacity is unchanged.
func (b *Buffer[T]) Reset() {
	clear(b.items)
	b.head = 0
	b.count = 0
}
