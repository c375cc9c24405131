// Package vseq contains a persistent ordered sequence type.
//
// A [Vector] is an immutable value:
// every method that would change the sequence returns a new Vector,
// sharing structure with the receiver.
// Copying a Vector is therefore O(1),
// which allows authoritative state, mirrors, and truncated views
// to be handed around freely without copying element data.
package vseq

import (
	"fmt"
	"iter"

	"github.com/benbjohnson/immutable"
)

// Vector is a persistent ordered sequence of T.
//
// The zero value is an empty Vector ready to use.
type Vector[T any] struct {
	l *immutable.List[T]
}

// New returns a Vector containing the given values in order.
func New[T any](values ...T) Vector[T] {
	if len(values) == 0 {
		return Vector[T]{}
	}
	return Vector[T]{l: immutable.NewList(values...)}
}

// FromSlice returns a Vector containing the elements of s.
// The Vector does not retain s.
func FromSlice[T any](s []T) Vector[T] {
	return New(s...)
}

// Len returns the number of elements in v.
func (v Vector[T]) Len() int {
	if v.l == nil {
		return 0
	}
	return v.l.Len()
}

// IsEmpty reports whether v has no elements.
func (v Vector[T]) IsEmpty() bool {
	return v.Len() == 0
}

// At returns the element at index i.
// It panics if i is out of range.
func (v Vector[T]) At(i int) T {
	if i < 0 || i >= v.Len() {
		panic(fmt.Errorf("BUG: vseq index %d out of range for length %d", i, v.Len()))
	}
	return v.l.Get(i)
}

// Get returns the element at index i,
// and false if i is out of range.
func (v Vector[T]) Get(i int) (T, bool) {
	if i < 0 || i >= v.Len() {
		var zero T
		return zero, false
	}
	return v.l.Get(i), true
}

// Set returns a copy of v with the element at index i replaced by x.
// It panics if i is out of range.
func (v Vector[T]) Set(i int, x T) Vector[T] {
	if i < 0 || i >= v.Len() {
		panic(fmt.Errorf("BUG: vseq set index %d out of range for length %d", i, v.Len()))
	}
	return Vector[T]{l: v.l.Set(i, x)}
}

// PushBack returns a copy of v with x added at the end.
func (v Vector[T]) PushBack(x T) Vector[T] {
	if v.l == nil {
		return New(x)
	}
	return Vector[T]{l: v.l.Append(x)}
}

// PushFront returns a copy of v with x added at the start.
func (v Vector[T]) PushFront(x T) Vector[T] {
	if v.l == nil {
		return New(x)
	}
	return Vector[T]{l: v.l.Prepend(x)}
}

// PopFront returns v without its first element, and that element.
// If v is empty, v is returned unchanged with ok set to false.
func (v Vector[T]) PopFront() (rest Vector[T], x T, ok bool) {
	n := v.Len()
	if n == 0 {
		return v, x, false
	}
	return v.Slice(1, n), v.l.Get(0), true
}

// PopBack returns v without its last element, and that element.
// If v is empty, v is returned unchanged with ok set to false.
func (v Vector[T]) PopBack() (rest Vector[T], x T, ok bool) {
	n := v.Len()
	if n == 0 {
		return v, x, false
	}
	return v.Slice(0, n-1), v.l.Get(n - 1), true
}

// Insert returns a copy of v with x placed at index i,
// shifting the elements at and after i one position to the right.
// Inserting at i == v.Len() is equivalent to [Vector.PushBack].
// It panics if i is out of range.
//
// The underlying list only grows at its ends,
// so interior inserts rebuild whichever side of i is shorter.
func (v Vector[T]) Insert(i int, x T) Vector[T] {
	n := v.Len()
	if i < 0 || i > n {
		panic(fmt.Errorf("BUG: vseq insert index %d out of range for length %d", i, n))
	}

	switch {
	case i == 0:
		return v.PushFront(x)
	case i == n:
		return v.PushBack(x)
	case i < n-i:
		l := v.l.Slice(i, n).Prepend(x)
		for j := i - 1; j >= 0; j-- {
			l = l.Prepend(v.l.Get(j))
		}
		return Vector[T]{l: l}
	default:
		l := v.l.Slice(0, i).Append(x)
		for j := i; j < n; j++ {
			l = l.Append(v.l.Get(j))
		}
		return Vector[T]{l: l}
	}
}

// Remove returns a copy of v without the element at index i,
// and the removed element.
// It panics if i is out of range.
func (v Vector[T]) Remove(i int) (Vector[T], T) {
	n := v.Len()
	if i < 0 || i >= n {
		panic(fmt.Errorf("BUG: vseq remove index %d out of range for length %d", i, n))
	}

	x := v.l.Get(i)
	switch {
	case i == 0:
		return v.Slice(1, n), x
	case i == n-1:
		return v.Slice(0, n-1), x
	case i < n-i:
		l := v.l.Slice(i+1, n)
		for j := i - 1; j >= 0; j-- {
			l = l.Prepend(v.l.Get(j))
		}
		return Vector[T]{l: l}, x
	default:
		l := v.l.Slice(0, i)
		for j := i + 1; j < n; j++ {
			l = l.Append(v.l.Get(j))
		}
		return Vector[T]{l: l}, x
	}
}

// Truncate returns v limited to its first n elements.
// If n >= v.Len(), v is returned unchanged.
func (v Vector[T]) Truncate(n int) Vector[T] {
	if n < 0 {
		panic(fmt.Errorf("BUG: vseq truncate to negative length %d", n))
	}
	if n >= v.Len() {
		return v
	}
	return v.Slice(0, n)
}

// Slice returns the elements of v in the half-open range [start, end).
// It panics if the range is invalid.
func (v Vector[T]) Slice(start, end int) Vector[T] {
	n := v.Len()
	if start < 0 || end < start || end > n {
		panic(fmt.Errorf("BUG: vseq slice [%d:%d] out of range for length %d", start, end, n))
	}
	if start == end {
		return Vector[T]{}
	}
	if start == 0 && end == n {
		return v
	}
	return Vector[T]{l: v.l.Slice(start, end)}
}

// Concat returns v followed by every element of o.
func (v Vector[T]) Concat(o Vector[T]) Vector[T] {
	if o.Len() == 0 {
		return v
	}
	if v.Len() == 0 {
		return o
	}

	l := v.l
	itr := o.l.Iterator()
	for !itr.Done() {
		_, x := itr.Next()
		l = l.Append(x)
	}
	return Vector[T]{l: l}
}

// All returns an iterator over the index and value of every element,
// in ascending order.
func (v Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if v.l == nil {
			return
		}
		itr := v.l.Iterator()
		for !itr.Done() {
			if !yield(itr.Next()) {
				return
			}
		}
	}
}

// ToSlice returns a newly allocated slice holding the elements of v.
func (v Vector[T]) ToSlice() []T {
	out := make([]T, 0, v.Len())
	for _, x := range v.All() {
		out = append(out, x)
	}
	return out
}

// String formats v like a slice.
func (v Vector[T]) String() string {
	return fmt.Sprint(v.ToSlice())
}
