// Package vstream contains the pull-based stream interface
// that every diff producer and combinator in vista implements,
// along with small adapters for feeding values into streams.
//
// A [Stream] is polled rather than ranged over,
// so that a combinator can check several inner streams in a fixed priority
// without spawning goroutines:
// each Poll call reports [Ready], [Pending], or [Done],
// and a Pending stream remembers the [Waker] it was given
// so it can signal when polling again is worthwhile.
package vstream

import (
	"context"
	"errors"
)

// Status is the outcome of a call to [Stream.Poll].
type Status uint8

const (
	// Pending indicates no item is available yet.
	// The stream retains the Waker passed to Poll,
	// and calls it once a later Poll may make progress.
	Pending Status = iota

	// Ready indicates the returned item is valid.
	Ready

	// Done indicates the stream has ended.
	// Every later Poll also reports Done.
	Done
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	case Done:
		return "Done"
	default:
		return "Status(?)"
	}
}

// Waker is called by a stream when a previously Pending poll
// may now make progress.
// It may be called from any goroutine and must not block.
// Spurious calls are permitted.
//
// Passing a nil Waker to Poll means the caller will not wait,
// so streams must not call it.
type Waker func()

// Stream is a pull-based source of items.
//
// Poll is not safe for concurrent use;
// a stream has a single consumer.
type Stream[I any] interface {
	Poll(w Waker) (I, Status)
}

// ErrEnded is returned from [Next] when the stream is Done.
var ErrEnded = errors.New("stream ended")

// NewWaker returns a Waker paired with the channel it signals.
// The channel has capacity one, so repeated wakes coalesce.
func NewWaker() (Waker, <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, ch
}

// Next blocks until s produces an item.
//
// If the stream ends, Next returns [ErrEnded].
// If ctx is canceled first, Next returns the context's cause.
func Next[I any](ctx context.Context, s Stream[I]) (I, error) {
	w, wake := NewWaker()
	for {
		item, st := s.Poll(w)
		switch st {
		case Ready:
			return item, nil
		case Done:
			return item, ErrEnded
		}

		select {
		case <-ctx.Done():
			var zero I
			return zero, context.Cause(ctx)
		case <-wake:
			// Poll again.
		}
	}
}

// TryNext polls s once without arranging to be woken.
func TryNext[I any](s Stream[I]) (I, Status) {
	return s.Poll(nil)
}

// ReadyItems polls s until it stops reporting Ready,
// returning every item produced and the final status.
func ReadyItems[I any](s Stream[I]) ([]I, Status) {
	var out []I
	for {
		item, st := s.Poll(nil)
		if st != Ready {
			return out, st
		}
		out = append(out, item)
	}
}

// Empty returns a stream that is immediately Done.
// It is the limit stream used when a limit never changes.
func Empty[I any]() Stream[I] {
	return emptyStream[I]{}
}

type emptyStream[I any] struct{}

func (emptyStream[I]) Poll(Waker) (I, Status) {
	var zero I
	return zero, Done
}

// Items returns a stream that yields each of items in order
// and is then Done.
func Items[I any](items ...I) Stream[I] {
	return &itemsStream[I]{items: items}
}

type itemsStream[I any] struct {
	items []I
}

func (s *itemsStream[I]) Poll(Waker) (I, Status) {
	if len(s.items) == 0 {
		var zero I
		return zero, Done
	}
	item := s.items[0]
	s.items = s.items[1:]
	return item, Ready
}
