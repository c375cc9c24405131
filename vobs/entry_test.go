package vobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gordian-engine/vista/vdiff"
	"github.com/gordian-engine/vista/vistatest"
	"github.com/gordian-engine/vista/vobs"
	"github.com/stretchr/testify/require"
)

func TestVector_ForEach(t *testing.T) {
	t.Parallel()

	ob := newVector(t, 16, 0, 10, 1, 2, 4, 33, 5)
	initial := ob.Values()
	sub := ob.Subscribe()

	sawFive := false
	ob.ForEach(func(e *vobs.Entry[int]) {
		x := e.Value()
		switch {
		case x%2 == 0:
			e.Set(x / 2)
			if e.Value() == 0 {
				e.Remove()
			}
		case x > 10:
			e.Remove()
		case x == 5:
			sawFive = true
		}
	})

	require.True(t, sawFive)

	want := []vdiff.Diff[int]{
		vdiff.Set(0, 0),
		vdiff.Remove[int](0),
		vdiff.Set(0, 5),
		vdiff.Set(2, 1),
		vdiff.Set(3, 2),
		vdiff.Remove[int](4),
	}
	for _, d := range want {
		vistatest.RequireNext(t, sub, d)
	}
	vistatest.RequirePending(t, sub)

	vistatest.RequireVectorEqual(t, []int{5, 1, 1, 2, 5}, ob.Values())
	vistatest.RequireVectorEqual(t, ob.Values().ToSlice(), vistatest.Replay(initial, want))
}

func TestVector_Entries_trueIndexAfterRemovals(t *testing.T) {
	t.Parallel()

	ob := newVector(t, 16, 'a', 'b', 'c', 'd', 'e')

	var indices []int
	var seen []rune
	for e := range ob.Entries() {
		indices = append(indices, e.Index())
		seen = append(seen, e.Value())
		if e.Value() == 'b' || e.Value() == 'c' {
			e.Remove()
		}
	}

	require.Equal(t, []rune("abcde"), seen)
	require.Equal(t, []int{0, 1, 1, 1, 2}, indices)
	vistatest.RequireVectorEqual(t, []rune("ade"), ob.Values())
}

func TestVector_Entries_stopsEarly(t *testing.T) {
	t.Parallel()

	ob := newVector(t, 16, 1, 2, 3)

	n := 0
	for e := range ob.Entries() {
		e.Set(e.Value() * 10)
		n++
		if n == 2 {
			break
		}
	}

	vistatest.RequireVectorEqual(t, []int{10, 20, 3}, ob.Values())
}

func TestEntry_panicsAfterUse(t *testing.T) {
	t.Parallel()

	ob := newVector(t, 16, 1, 2, 3)

	e := ob.Entry(1)
	require.Equal(t, 2, e.Remove())
	require.Panics(t, func() { e.Value() })
	require.Panics(t, func() { e.Set(5) })

	var kept *vobs.Entry[int]
	ob.ForEach(func(e *vobs.Entry[int]) {
		kept = e
	})
	require.Panics(t, func() { kept.Value() })
}

func TestVector_ForEachAsync(t *testing.T) {
	t.Parallel()

	ob := newVector[uint16](t, 16, 2, 1)

	err := ob.ForEachAsync(context.Background(), func(_ context.Context, e *vobs.Entry[uint16]) error {
		e.Set(e.Value() + 1)
		return nil
	})
	require.NoError(t, err)

	vistatest.RequireVectorEqual(t, []uint16{3, 2}, ob.Values())
}

func TestVector_ForEachAsync_stopsOnError(t *testing.T) {
	t.Parallel()

	ob := newVector(t, 16, 1, 2, 3, 4)
	stop := errors.New("stop")

	err := ob.ForEachAsync(context.Background(), func(_ context.Context, e *vobs.Entry[int]) error {
		if e.Value() == 2 {
			e.Remove()
			return nil
		}
		if e.Value() == 3 {
			return stop
		}
		e.Set(0)
		return nil
	})
	require.ErrorIs(t, err, stop)

	vistatest.RequireVectorEqual(t, []int{0, 3, 4}, ob.Values())
}

func TestVector_ForEachAsync_contextCanceled(t *testing.T) {
	t.Parallel()

	ob := newVector(t, 16, 1, 2, 3)

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	cause := errors.New("cause")
	visited := 0
	err := ob.ForEachAsync(ctx, func(_ context.Context, e *vobs.Entry[int]) error {
		visited++
		cancel(cause)
		return nil
	})
	require.ErrorIs(t, err, cause)
	require.Equal(t, 1, visited)
}

func TestVector_Entry(t *testing.T) {
	t.Parallel()

	ob := newVector[uint8](t, 16, 1, 2)
	ob.Entry(1).Set(3)
	ob.Entry(0).Remove()

	vistatest.RequireVectorEqual(t, []uint8{3}, ob.Values())
}

func TestVector_Entry_outOfRange(t *testing.T) {
	t.Parallel()

	ob := newVector[string](t, 16)

	require.PanicsWithError(t, "entry index 0 out of range for length 0", func() {
		ob.Entry(0)
	})
}
