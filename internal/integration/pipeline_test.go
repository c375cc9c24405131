package integration

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/gordian-engine/vista/internal/vtest"
	"github.com/gordian-engine/vista/vdiff"
	"github.com/gordian-engine/vista/vistatest"
	"github.com/gordian-engine/vista/vlimit"
	"github.com/gordian-engine/vista/vobs"
	"github.com/gordian-engine/vista/vseq"
	"github.com/gordian-engine/vista/vstream"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// consume replays every item of s onto initial until s ends.
func consume[I any](
	ctx context.Context,
	s vstream.Stream[I],
	initial vseq.Vector[int],
	apply func(vseq.Vector[int], I) vseq.Vector[int],
) (vseq.Vector[int], error) {
	v := initial
	for {
		item, err := vstream.Next(ctx, s)
		if errors.Is(err, vstream.ErrEnded) {
			return v, nil
		}
		if err != nil {
			return v, err
		}
		v = apply(v, item)
	}
}

func applyDiff(v vseq.Vector[int], d vdiff.Diff[int]) vseq.Vector[int] {
	return d.Apply(v)
}

func applyBatch(v vseq.Vector[int], b []vdiff.Diff[int]) vseq.Vector[int] {
	return vdiff.ApplyAll(v, b...)
}

func TestPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping due to short mode")
	}

	t.Parallel()

	const nMutations = 5000

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	log := vtest.NewLogger(t)
	rng := vtest.RandForTest(t)

	ob := vobs.NewVector(log.With("sys", "vector"), vobs.VectorConfig[int]{
		// Small enough that consumers regularly lag.
		Capacity: 4,
		Initial:  vseq.New(1, 2, 3),
	})
	initial := ob.Values()

	full := ob.Subscribe()
	limited := ob.Subscribe()
	batched := ob.Subscribe().Batched()

	limitCh := make(chan int)
	batchedLimitCh := make(chan int)

	g, gCtx := errgroup.WithContext(ctx)

	limits, _ := vstream.FromChannel(gCtx, limitCh)
	limitedView, limit := vlimit.DynamicWithInitialLimit(initial, limited, 2, limits)

	batchedLimits, _ := vstream.FromChannel(gCtx, batchedLimitCh)
	batchedLimit := vlimit.DynamicBatched(initial, batched, batchedLimits)

	// Separate sources, since the producers run concurrently.
	mutRNG := rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
	limitRNG := rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))

	g.Go(func() error {
		defer ob.Close()

		m := vistatest.NewMutator(mutRNG)
		for range nMutations {
			if err := gCtx.Err(); err != nil {
				return err
			}
			m.Mutate(ob)
		}
		return nil
	})

	g.Go(func() error {
		defer close(limitCh)
		defer close(batchedLimitCh)

		for range nMutations / 10 {
			for _, ch := range []chan<- int{limitCh, batchedLimitCh} {
				select {
				case <-gCtx.Done():
					return context.Cause(gCtx)
				case ch <- limitRNG.IntN(12):
				}
			}
		}
		return nil
	})

	var fullGot, limitedGot, batchedGot vseq.Vector[int]

	g.Go(func() error {
		var err error
		fullGot, err = consume(gCtx, full, initial, applyDiff)
		if err != nil {
			return fmt.Errorf("full subscriber: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		limitedGot, err = consume(gCtx, limit, limitedView, applyDiff)
		if err != nil {
			return fmt.Errorf("limited subscriber: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		batchedGot, err = consume(gCtx, batchedLimit, vseq.Vector[int]{}, applyBatch)
		if err != nil {
			return fmt.Errorf("batched limited subscriber: %w", err)
		}
		return nil
	})

	require.NoError(t, g.Wait())

	final := ob.Values()
	vistatest.RequireVectorEqual(t, final.ToSlice(), fullGot)

	// Limit values sent after the diff stream ended were never consumed,
	// so compare against the last limit each combinator saw.
	vistatest.RequireVectorEqual(t, final.Truncate(limit.Limit()).ToSlice(), limitedGot)
	vistatest.RequireVectorEqual(t, final.ToSlice(), limit.Mirror())
	vistatest.RequireVectorEqual(t, final.Truncate(batchedLimit.Limit()).ToSlice(), batchedGot)
}

func TestPipeline_consumerCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancelCause(context.Background())

	ob := vobs.NewVector(vtest.NewLogger(t), vobs.VectorConfig[int]{
		Capacity: vobs.DefaultCapacity,
		Initial:  vseq.New(1, 2, 3),
	})
	defer ob.Close()

	_, l := vlimit.New(ob.Values(), ob.Subscribe(), 3)

	errCh := make(chan error, 1)
	go func() {
		_, err := vstream.Next(ctx, l)
		errCh <- err
	}()

	vtest.NotSending(t, errCh)

	// Outside the view.
	ob.PushBack(4)
	ob.Append(vseq.New(5, 6))
	vtest.NotSending(t, errCh)

	stop := errors.New("stop")
	cancel(stop)
	require.ErrorIs(t, vtest.ReceiveSoon(t, errCh), stop)
}
