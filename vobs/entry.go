package vobs

import (
	"context"
	"fmt"
	"iter"
)

// Entry is a cursor on one element of a [Vector],
// allowing the element to be replaced or removed in place.
//
// Entries handed out during enumeration are valid only for that step.
// After [*Entry.Remove], or once the enumeration moves on,
// every method except Index panics.
type Entry[T any] struct {
	v     *Vector[T]
	index int

	removed bool
	expired bool
}

// Entry returns a cursor on the element at index i.
// It panics with an [*IndexOutOfRangeError] if i >= v.Len().
func (v *Vector[T]) Entry(i int) *Entry[T] {
	if n := v.Len(); i < 0 || i >= n {
		panic(&IndexOutOfRangeError{Index: i, Len: n})
	}
	return &Entry[T]{v: v, index: i}
}

// Index returns the current position of the element in the vector.
func (e *Entry[T]) Index() int {
	return e.index
}

// Value returns the element under the cursor.
func (e *Entry[T]) Value() T {
	e.checkUsable()
	return e.v.At(e.index)
}

// Set replaces the element, broadcasting a Set diff at its current index.
// It returns the previous element.
func (e *Entry[T]) Set(x T) T {
	e.checkUsable()
	return e.v.Set(e.index, x)
}

// Remove deletes the element, broadcasting a Remove diff at its current index.
// The entry may not be used afterward.
func (e *Entry[T]) Remove() T {
	e.checkUsable()
	e.removed = true
	return e.v.Remove(e.index)
}

func (e *Entry[T]) checkUsable() {
	if e.removed {
		panic("BUG: use of entry after Remove")
	}
	if e.expired {
		panic("BUG: use of entry after its enumeration step")
	}
}

// Entries returns an iterator over an entry for every element of v,
// in ascending order.
//
// The number of elements visited is fixed when iteration starts.
// Removing an entry shifts the positions of the elements after it,
// and later entries account for that shift.
// Inserting elements during iteration is not supported.
func (v *Vector[T]) Entries() iter.Seq[*Entry[T]] {
	return func(yield func(*Entry[T]) bool) {
		n := v.Len()
		removed := 0
		for i := 0; i < n; i++ {
			e := &Entry[T]{v: v, index: i - removed}
			more := yield(e)
			e.expired = true
			if e.removed {
				removed++
			}
			if !more {
				return
			}
		}
	}
}

// ForEach calls fn with an entry for every element of v.
// See [*Vector.Entries] for the iteration rules.
func (v *Vector[T]) ForEach(fn func(*Entry[T])) {
	for e := range v.Entries() {
		fn(e)
	}
}

// ForEachAsync is like [*Vector.ForEach]
// for a visitor that may block or fail.
//
// Iteration stops at the first error from fn,
// or when ctx is canceled between elements.
func (v *Vector[T]) ForEachAsync(
	ctx context.Context,
	fn func(context.Context, *Entry[T]) error,
) error {
	i := 0
	for e := range v.Entries() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf(
				"context canceled before visiting element %d: %w",
				i, context.Cause(ctx),
			)
		}

		if err := fn(ctx, e); err != nil {
			return fmt.Errorf("failed to visit element %d: %w", i, err)
		}
		i++
	}
	return nil
}
