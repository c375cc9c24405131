package vstream

import "context"

// FromChannel starts a background goroutine
// that reads values from ch and publishes them to a new [Feed],
// returning a stream over that feed.
//
// The returned done channel is closed when the goroutine stops,
// which will happen on context cancellation or
// if the given channel is closed.
// In either case the stream reports [Done]
// after yielding every value already read.
func FromChannel[T any](ctx context.Context, ch <-chan T) (
	s Stream[T], done <-chan struct{},
) {
	f := NewFeed[T]()
	doneCh := make(chan struct{})

	go runChannelToFeed(ctx, ch, f, doneCh)

	return f.Stream(ctx), doneCh
}

func runChannelToFeed[T any](
	ctx context.Context,
	ch <-chan T,
	f *Feed[T],
	done chan<- struct{},
) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			f.Close()
			return

		case v, ok := <-ch:
			if !ok {
				f.Close()
				return
			}
			f.Publish(v)
			f = f.Next
		}
	}
}
