// Package vistatest contains helpers for testing code
// that produces or consumes vista diff streams.
package vistatest

import (
	"testing"

	"github.com/gordian-engine/vista/vdiff"
	"github.com/gordian-engine/vista/vseq"
	"github.com/gordian-engine/vista/vstream"
	"github.com/stretchr/testify/require"
)

// PlainDiff is a [vdiff.Diff] with its values expanded into a slice,
// so that two diffs with equal contents compare equal
// regardless of how their persistent vectors were built.
type PlainDiff[T any] struct {
	Kind   vdiff.Kind
	Index  int
	Length int
	Value  T
	Values []T
}

// Plain converts each diff in ds to a [PlainDiff].
func Plain[T any](ds ...vdiff.Diff[T]) []PlainDiff[T] {
	out := make([]PlainDiff[T], len(ds))
	for i, d := range ds {
		out[i] = PlainDiff[T]{
			Kind:   d.Kind,
			Index:  d.Index,
			Length: d.Length,
			Value:  d.Value,
			Values: d.Values.ToSlice(),
		}
	}
	return out
}

// RequireDiffsEqual fails the test if got does not match want,
// comparing diff contents rather than vector internals.
func RequireDiffsEqual[T any](t testing.TB, want, got []vdiff.Diff[T], msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, Plain(want...), Plain(got...), msgAndArgs...)
}

// RequireVectorEqual fails the test if got does not hold exactly want.
func RequireVectorEqual[T any](t testing.TB, want []T, got vseq.Vector[T], msgAndArgs ...any) {
	t.Helper()
	if want == nil {
		want = []T{}
	}
	require.Equal(t, want, got.ToSlice(), msgAndArgs...)
}

// RequireNext polls s once and fails the test
// unless it yields exactly want.
func RequireNext[T any](t testing.TB, s vstream.Stream[vdiff.Diff[T]], want vdiff.Diff[T]) {
	t.Helper()

	got, st := vstream.TryNext(s)
	require.Equal(t, vstream.Ready, st, "expected %s", want)
	RequireDiffsEqual(t, []vdiff.Diff[T]{want}, []vdiff.Diff[T]{got})
}

// RequirePending fails the test unless polling s reports Pending.
func RequirePending[I any](t testing.TB, s vstream.Stream[I]) {
	t.Helper()

	item, st := vstream.TryNext(s)
	require.Equal(t, vstream.Pending, st, "unexpected item %v", item)
}

// Replay applies every diff from ds to initial, in order.
func Replay[T any](initial vseq.Vector[T], ds []vdiff.Diff[T]) vseq.Vector[T] {
	return vdiff.ApplyAll(initial, ds...)
}

// ReplayBatches applies every diff of every batch to initial, in order.
func ReplayBatches[T any](initial vseq.Vector[T], batches [][]vdiff.Diff[T]) vseq.Vector[T] {
	for _, b := range batches {
		initial = vdiff.ApplyAll(initial, b...)
	}
	return initial
}
