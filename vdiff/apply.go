package vdiff

import (
	"fmt"

	"github.com/gordian-engine/vista/vseq"
)

// PreconditionError is the panic value from [Diff.Apply]
// when a diff cannot be applied to the given sequence,
// such as popping from an empty sequence
// or addressing an index beyond its length.
//
// A well-formed diff stream never causes this;
// it indicates a bug in whatever produced the stream.
type PreconditionError struct {
	Kind   Kind
	Index  int
	Length int
}

func (e *PreconditionError) Error() string {
	switch e.Kind {
	case KindPopFront, KindPopBack:
		return fmt.Sprintf("BUG: cannot apply %s to empty sequence", e.Kind)
	default:
		return fmt.Sprintf(
			"BUG: cannot apply %s at index %d to sequence of length %d",
			e.Kind, e.Index, e.Length,
		)
	}
}

// Apply returns the result of applying d to v.
// v itself is not modified.
//
// Apply panics with a [*PreconditionError]
// if d is not valid for the current length of v.
// Truncating to a length at or beyond the current length is a no-op.
func (d Diff[T]) Apply(v vseq.Vector[T]) vseq.Vector[T] {
	n := v.Len()

	switch d.Kind {
	case KindAppend:
		return v.Concat(d.Values)

	case KindClear:
		return vseq.Vector[T]{}

	case KindPushFront:
		return v.PushFront(d.Value)

	case KindPushBack:
		return v.PushBack(d.Value)

	case KindPopFront:
		rest, _, ok := v.PopFront()
		if !ok {
			panic(&PreconditionError{Kind: d.Kind})
		}
		return rest

	case KindPopBack:
		rest, _, ok := v.PopBack()
		if !ok {
			panic(&PreconditionError{Kind: d.Kind})
		}
		return rest

	case KindInsert:
		if d.Index < 0 || d.Index > n {
			panic(&PreconditionError{Kind: d.Kind, Index: d.Index, Length: n})
		}
		return v.Insert(d.Index, d.Value)

	case KindSet:
		if d.Index < 0 || d.Index >= n {
			panic(&PreconditionError{Kind: d.Kind, Index: d.Index, Length: n})
		}
		return v.Set(d.Index, d.Value)

	case KindRemove:
		if d.Index < 0 || d.Index >= n {
			panic(&PreconditionError{Kind: d.Kind, Index: d.Index, Length: n})
		}
		v, _ = v.Remove(d.Index)
		return v

	case KindTruncate:
		if d.Length < 0 {
			panic(&PreconditionError{Kind: d.Kind, Index: d.Length, Length: n})
		}
		return v.Truncate(d.Length)

	case KindReset:
		return d.Values

	default:
		panic(fmt.Errorf("BUG: cannot apply diff with unknown kind %s", d.Kind))
	}
}

// ApplyAll applies each diff in ds to v in order.
func ApplyAll[T any](v vseq.Vector[T], ds ...Diff[T]) vseq.Vector[T] {
	for _, d := range ds {
		v = d.Apply(v)
	}
	return v
}
