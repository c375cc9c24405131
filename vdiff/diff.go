// Package vdiff contains the closed set of changes
// that can be made to an ordered collection,
// and the canonical semantics for applying them.
//
// Every consumer that reconstructs collection state from a diff stream
// goes through [Diff.Apply],
// so that producers and mirrors agree on what each diff means.
//
// The package also contains the [Container] abstraction,
// which lets a stream combinator work uniformly over streams
// that deliver one diff at a time ([Singular])
// or whole transactions of diffs ([Batched]).
package vdiff

import (
	"fmt"

	"github.com/gordian-engine/vista/vseq"
)

// Kind identifies the variant of a [Diff].
type Kind uint8

const (
	kindInvalid Kind = iota

	KindAppend
	KindClear
	KindPushFront
	KindPushBack
	KindPopFront
	KindPopBack
	KindInsert
	KindSet
	KindRemove
	KindTruncate
	KindReset
)

func (k Kind) String() string {
	switch k {
	case KindAppend:
		return "Append"
	case KindClear:
		return "Clear"
	case KindPushFront:
		return "PushFront"
	case KindPushBack:
		return "PushBack"
	case KindPopFront:
		return "PopFront"
	case KindPopBack:
		return "PopBack"
	case KindInsert:
		return "Insert"
	case KindSet:
		return "Set"
	case KindRemove:
		return "Remove"
	case KindTruncate:
		return "Truncate"
	case KindReset:
		return "Reset"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Diff is one atomic change to an ordered sequence of T.
//
// Only the fields relevant to the Kind are set:
//
//   - Append, Reset: Values
//   - PushFront, PushBack: Value
//   - Insert, Set: Index and Value
//   - Remove: Index
//   - Truncate: Length
//   - Clear, PopFront, PopBack: nothing
//
// Indices are relative to the length of the sequence
// at the time the diff is applied.
// Use the constructor functions rather than building Diff literals.
type Diff[T any] struct {
	Kind Kind

	Index  int
	Length int

	Value  T
	Values vseq.Vector[T]
}

// Append adds values to the end of the sequence.
func Append[T any](values vseq.Vector[T]) Diff[T] {
	return Diff[T]{Kind: KindAppend, Values: values}
}

// Clear removes every element.
func Clear[T any]() Diff[T] {
	return Diff[T]{Kind: KindClear}
}

// PushFront adds value at the start.
func PushFront[T any](value T) Diff[T] {
	return Diff[T]{Kind: KindPushFront, Value: value}
}

// PushBack adds value at the end.
func PushBack[T any](value T) Diff[T] {
	return Diff[T]{Kind: KindPushBack, Value: value}
}

// PopFront removes the first element.
func PopFront[T any]() Diff[T] {
	return Diff[T]{Kind: KindPopFront}
}

// PopBack removes the last element.
func PopBack[T any]() Diff[T] {
	return Diff[T]{Kind: KindPopBack}
}

// Insert places value at index, shifting later elements right.
func Insert[T any](index int, value T) Diff[T] {
	return Diff[T]{Kind: KindInsert, Index: index, Value: value}
}

// Set replaces the element at index.
func Set[T any](index int, value T) Diff[T] {
	return Diff[T]{Kind: KindSet, Index: index, Value: value}
}

// Remove deletes the element at index, shifting later elements left.
func Remove[T any](index int) Diff[T] {
	return Diff[T]{Kind: KindRemove, Index: index}
}

// Truncate keeps only the first length elements.
func Truncate[T any](length int) Diff[T] {
	return Diff[T]{Kind: KindTruncate, Length: length}
}

// Reset replaces the whole sequence.
// It is also the diff a lagging subscriber receives
// in place of the history it missed.
func Reset[T any](values vseq.Vector[T]) Diff[T] {
	return Diff[T]{Kind: KindReset, Values: values}
}

// String renders d for logs and test failures, such as "Insert(2, x)".
func (d Diff[T]) String() string {
	switch d.Kind {
	case KindAppend, KindReset:
		return fmt.Sprintf("%s(%v)", d.Kind, d.Values)
	case KindPushFront, KindPushBack:
		return fmt.Sprintf("%s(%v)", d.Kind, d.Value)
	case KindInsert, KindSet:
		return fmt.Sprintf("%s(%d, %v)", d.Kind, d.Index, d.Value)
	case KindRemove:
		return fmt.Sprintf("%s(%d)", d.Kind, d.Index)
	case KindTruncate:
		return fmt.Sprintf("%s(%d)", d.Kind, d.Length)
	default:
		return d.Kind.String()
	}
}
