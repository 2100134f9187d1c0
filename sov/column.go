// Package sov implements structure-of-arrays containers: rows of heterogeneous
// fixed-type records stored as one contiguous array per field, addressable
// either by field (column) or by index (row).
package sov

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the row capacity used when none is requested.
const DefaultCapacity = 20

// ErrOutOfRange is returned by the checked accessors when an index is not a live row.
var ErrOutOfRange = errors.New("sov: index out of range")

func outOfRange(index, count int) error {
	return fmt.Errorf("%w: index %d with length %d", ErrOutOfRange, index, count)
}

// Column is a single field: a typed backing array with an explicit live count.
// Elements at indices >= Len() are zero-valued spare capacity.
type Column[T any] struct {
	data  []T
	count int
}

// NewColumn allocates a column with room for capacity elements.
func NewColumn[T any](capacity int) *Column[T] {
	if capacity < 0 {
		panic(fmt.Sprintf("sov: negative capacity %d", capacity))
	}
	return &Column[T]{data: make([]T, capacity)}
}

// Len returns the number of live elements.
func (c *Column[T]) Len() int { return c.count }

// Cap returns the number of elements the column can hold before growing.
func (c *Column[T]) Cap() int { return len(c.data) }

// PushBack appends v, doubling the capacity first if the column is full.
func (c *Column[T]) PushBack(v T) {
	if c.count == len(c.data) {
		c.Reserve(c.count + 1)
	}
	c.data[c.count] = v
	c.count++
}

// PopBack drops the last element. It is a no-op on an empty column.
func (c *Column[T]) PopBack() {
	if c.count == 0 {
		return
	}
	c.count--
	var zero T
	c.data[c.count] = zero
}

// Values returns a view over exactly Len() live elements.
// The view is invalidated by any growth.
func (c *Column[T]) Values() []T {
	return c.data[:c.count:c.count]
}

// Ptr returns a pointer to element i without bounds checking against Len().
func (c *Column[T]) Ptr(i int) *T {
	return &c.data[i]
}

// At returns a pointer to element i, or ErrOutOfRange.
func (c *Column[T]) At(i int) (*T, error) {
	if i < 0 || i >= c.count {
		return nil, outOfRange(i, c.count)
	}
	return &c.data[i], nil
}

// Reserve makes room for at least n elements.
func (c *Column[T]) Reserve(n int) {
	if n <= len(c.data) {
		return
	}
	c.resize(growCapacity(len(c.data), n))
}

// Clear destroys every live element but keeps the capacity.
func (c *Column[T]) Clear() {
	clear(c.data[:c.count])
	c.count = 0
}

// Clone returns a deep copy with the same capacity.
func (c *Column[T]) Clone() *Column[T] {
	out := &Column[T]{data: make([]T, len(c.data)), count: c.count}
	copy(out.data, c.data[:c.count])
	return out
}

// resize moves the live elements into a fresh backing array of newCap
// elements and destroys the old ones.
func (c *Column[T]) resize(newCap int) {
	data := make([]T, newCap)
	copy(data, c.data[:c.count])
	clear(c.data[:c.count])
	c.data = data
}

// growCapacity doubles from current until it reaches need.
func growCapacity(current, need int) int {
	next := current
	if next == 0 {
		next = 1
	}
	for next < need {
		next *= 2
	}
	return next
}
