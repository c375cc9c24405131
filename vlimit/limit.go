// Package vlimit contains [Limit],
// a diff stream combinator that presents a length-limited view
// of an ordered collection.
//
// The observed collection can have any length,
// but a consumer may only want to see its first n elements,
// where n can change over time.
// Limit consumes the full diff stream and a stream of limit values,
// and produces a diff stream whose replay always equals
// the full collection truncated to the current limit.
//
// Limit keeps its own mirror of the full collection,
// rebuilt purely from the diffs it observes,
// so that it can supply elements that enter the view:
// when the limit grows, or when an element inside the view is removed.
// The mirror is a persistent vector,
// so elements are shared with the producer rather than copied.
//
// A limit larger than the collection's length is allowed;
// the view is then simply the whole collection.
package vlimit

import (
	"github.com/gordian-engine/vista/vdiff"
	"github.com/gordian-engine/vista/vseq"
	"github.com/gordian-engine/vista/vstream"
)

// Limit is a [vstream.Stream] adapter limiting the view of a diff stream.
//
// I is the item type of both the input and output streams:
// a single [vdiff.Diff] or a transaction of diffs,
// as described by the Limit's [vdiff.Container].
//
// Limit is not safe for concurrent use.
type Limit[T, I any] struct {
	c vdiff.Container[T, I]

	inner  vstream.Stream[I]
	limits vstream.Stream[int]

	// Replica of the full, unlimited collection.
	mirror vseq.Vector[T]

	limit int

	// One input diff can produce two output diffs.
	// In singular mode the second one waits here until the next poll.
	// For example with mirror [10, 11, 12] and limit 2,
	// PopFront removes 10 from the view and 12 enters it:
	// the PushBack(12) is buffered.
	buf vdiff.Buf[T]
}

func newLimit[T, I any](
	c vdiff.Container[T, I],
	initial vseq.Vector[T],
	inner vstream.Stream[I],
	initialLimit int,
	limits vstream.Stream[int],
) *Limit[T, I] {
	if initialLimit < 0 {
		panic("BUG: negative limit")
	}
	return &Limit[T, I]{
		c: c,

		inner:  inner,
		limits: limits,

		mirror: initial,
		limit:  initialLimit,
	}
}

// New returns a Limit with a fixed limit over single-diff stream s,
// which must describe changes to initial.
//
// It returns initial truncated to limit;
// replaying the Limit's diffs on that view keeps it
// equal to the collection truncated to limit.
func New[T any](
	initial vseq.Vector[T],
	s vstream.Stream[vdiff.Diff[T]],
	limit int,
) (vseq.Vector[T], *Limit[T, vdiff.Diff[T]]) {
	return DynamicWithInitialLimit(initial, s, limit, vstream.Empty[int]())
}

// Dynamic returns a Limit over single-diff stream s
// whose limit is taken from the limits stream.
//
// The limit starts at zero,
// so the Limit produces nothing until the first limit value arrives,
// and the initial view is empty.
func Dynamic[T any](
	initial vseq.Vector[T],
	s vstream.Stream[vdiff.Diff[T]],
	limits vstream.Stream[int],
) *Limit[T, vdiff.Diff[T]] {
	return newLimit(vdiff.Singular[T]{}, initial, s, 0, limits)
}

// DynamicWithInitialLimit is like [Dynamic]
// but starts from initialLimit instead of zero.
// It returns initial truncated to initialLimit.
func DynamicWithInitialLimit[T any](
	initial vseq.Vector[T],
	s vstream.Stream[vdiff.Diff[T]],
	initialLimit int,
	limits vstream.Stream[int],
) (vseq.Vector[T], *Limit[T, vdiff.Diff[T]]) {
	l := newLimit(vdiff.Singular[T]{}, initial, s, initialLimit, limits)
	return initial.Truncate(initialLimit), l
}

// NewBatched is [New] for a stream of diff transactions.
// Each input transaction produces at most one output transaction.
func NewBatched[T any](
	initial vseq.Vector[T],
	s vstream.Stream[[]vdiff.Diff[T]],
	limit int,
) (vseq.Vector[T], *Limit[T, []vdiff.Diff[T]]) {
	return DynamicBatchedWithInitialLimit(initial, s, limit, vstream.Empty[int]())
}

// DynamicBatched is [Dynamic] for a stream of diff transactions.
func DynamicBatched[T any](
	initial vseq.Vector[T],
	s vstream.Stream[[]vdiff.Diff[T]],
	limits vstream.Stream[int],
) *Limit[T, []vdiff.Diff[T]] {
	return newLimit(vdiff.Batched[T]{}, initial, s, 0, limits)
}

// DynamicBatchedWithInitialLimit is [DynamicWithInitialLimit]
// for a stream of diff transactions.
func DynamicBatchedWithInitialLimit[T any](
	initial vseq.Vector[T],
	s vstream.Stream[[]vdiff.Diff[T]],
	initialLimit int,
	limits vstream.Stream[int],
) (vseq.Vector[T], *Limit[T, []vdiff.Diff[T]]) {
	l := newLimit(vdiff.Batched[T]{}, initial, s, initialLimit, limits)
	return initial.Truncate(initialLimit), l
}

// Mirror returns the full, unlimited collection
// as of the last diff l consumed.
func (l *Limit[T, I]) Mirror() vseq.Vector[T] {
	return l.mirror
}

// Limit returns the current limit.
func (l *Limit[T, I]) Limit() int {
	return l.limit
}

// Poll implements [vstream.Stream].
//
// Buffered output is returned first.
// Then every limit value that is ready is consumed
// before the diff stream is polled,
// so limit changes are never starved by a busy diff stream.
// The Limit is Done once the diff stream is Done.
func (l *Limit[T, I]) Poll(w vstream.Waker) (I, vstream.Status) {
	for {
		if item, ok := l.c.PopBuf(&l.buf); ok {
			return item, vstream.Ready
		}

		for {
			next, st := l.limits.Poll(w)
			if st != vstream.Ready {
				break
			}
			if next < 0 {
				panic("BUG: negative limit")
			}

			if d, ok := l.updateLimit(next); ok {
				return l.c.FromDiff(d), vstream.Ready
			}
		}

		item, st := l.inner.Poll(w)
		if st != vstream.Ready {
			var zero I
			return zero, st
		}

		if out, ok := l.c.Transform(item, &l.buf, l.handleDiff); ok {
			return out, vstream.Ready
		}

		// The input was entirely outside the view; poll again.
	}
}

// updateLimit sets the limit to newLimit,
// returning the diff that adjusts the view, if any.
func (l *Limit[T, I]) updateLimit(newLimit int) (vdiff.Diff[T], bool) {
	oldLimit := l.limit
	l.limit = newLimit

	n := l.mirror.Len()
	if n == 0 {
		return vdiff.Diff[T]{}, false
	}

	switch {
	case newLimit > oldLimit:
		if oldLimit >= n {
			return vdiff.Diff[T]{}, false
		}
		return vdiff.Append(l.mirror.Slice(oldLimit, min(newLimit, n))), true

	case newLimit < oldLimit:
		if n <= newLimit {
			return vdiff.Diff[T]{}, false
		}
		return vdiff.Truncate[T](newLimit), true

	default:
		return vdiff.Diff[T]{}, false
	}
}

// handleDiff applies d to the mirror
// and returns the diffs to apply to the limited view.
func (l *Limit[T, I]) handleDiff(d vdiff.Diff[T]) vdiff.Pair[T] {
	prevLen := l.mirror.Len()
	l.mirror = d.Apply(l.mirror)

	var out vdiff.Pair[T]

	limit := l.limit
	if limit == 0 {
		return out
	}

	isFull := prevLen >= limit

	switch d.Kind {
	case vdiff.KindAppend:
		if !isFull {
			values := d.Values.Truncate(limit - prevLen)
			out.Push(vdiff.Append(values))
		}

	case vdiff.KindClear:
		out.Push(d)

	case vdiff.KindPushFront:
		if isFull {
			// Make room for the new element.
			out.Push(vdiff.PopBack[T]())
		}
		out.Push(d)

	case vdiff.KindPushBack:
		if !isFull {
			out.Push(d)
		}

	case vdiff.KindPopFront:
		out.Push(d)
		l.pushBackfill(&out)

	case vdiff.KindPopBack:
		// Only visible if the popped element was inside the view.
		if prevLen <= limit {
			out.Push(d)
		}

	case vdiff.KindInsert:
		if d.Index < limit {
			if isFull {
				out.Push(vdiff.PopBack[T]())
			}
			out.Push(d)
		}

	case vdiff.KindSet:
		if d.Index < limit {
			out.Push(d)
		}

	case vdiff.KindRemove:
		if d.Index < limit {
			out.Push(d)
			l.pushBackfill(&out)
		}

	case vdiff.KindTruncate:
		if d.Length < limit {
			out.Push(d)
		}

	case vdiff.KindReset:
		out.Push(vdiff.Reset(d.Values.Truncate(limit)))
	}

	return out
}

// pushBackfill adds a PushBack for the element
// that just moved into the last position of the view, if any.
func (l *Limit[T, I]) pushBackfill(out *vdiff.Pair[T]) {
	if x, ok := l.mirror.Get(l.limit - 1); ok {
		out.Push(vdiff.PushBack(x))
	}
}
