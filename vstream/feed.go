package vstream

import (
	"context"
	"sync"
)

// Feed is one node of an append-only sequence of values,
// written by one goroutine and read by any number of [Feed.Stream] readers.
//
// Ready is closed once the node is settled,
// either holding Val with a fresh Next node after it,
// or marked Closed as the end of the sequence.
// Fields must not be read before Ready is closed.
//
// Feed is the natural source for limit values
// shared by several limiting combinators:
// each combinator reads the same sequence through its own reader.
//
// Every node from the oldest unread one onward stays reachable,
// so a reader that stops consuming pins the rest of the feed in memory.
type Feed[T any] struct {
	Ready chan struct{}
	Next  *Feed[T]
	Val   T

	// Closed is set before Ready is closed
	// when the writer ends the feed instead of publishing a value.
	// Next is nil on a closed node.
	Closed bool
}

// NewFeed returns an unsettled feed node.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{Ready: make(chan struct{})}
}

// Publish settles f with value t and appends a new unsettled node,
// which the writer continues from.
//
// Settling a node twice, by Publish or Close, panics.
func (f *Feed[T]) Publish(t T) {
	f.Next = NewFeed[T]()
	f.Val = t
	close(f.Ready)
}

// Close marks f as the end of the feed.
// Readers that reach f report [Done].
//
// Settling a node twice, by Publish or Close, panics.
func (f *Feed[T]) Close() {
	f.Closed = true
	close(f.Ready)
}

// Stream returns a reader positioned at f.
// Each call returns an independent reader.
//
// While the reader is Pending, a single goroutine waits on the current node,
// and it stops when the node is settled or ctx is done.
// Once ctx is done, the reader reports [Done]
// instead of waiting for further values.
//
// A reader dropped while Pending leaves that goroutine waiting
// until the feed advances or ctx is done,
// so callers that may abandon a reader on an idle feed
// must cancel ctx.
func (f *Feed[T]) Stream(ctx context.Context) Stream[T] {
	return &feedStream[T]{ctx: ctx, node: f}
}

type feedStream[T any] struct {
	ctx  context.Context
	node *Feed[T]

	ended bool

	// The node a watcher goroutine is currently waiting on, if any.
	watching *Feed[T]

	mu   sync.Mutex
	wake Waker
}

func (s *feedStream[T]) Poll(w Waker) (T, Status) {
	var zero T
	if s.ended {
		return zero, Done
	}

	select {
	case <-s.node.Ready:
		if s.node.Closed {
			s.ended = true
			return zero, Done
		}
		v := s.node.Val
		s.node = s.node.Next
		return v, Ready
	default:
	}

	if s.ctx.Err() != nil {
		s.ended = true
		return zero, Done
	}

	if w == nil {
		return zero, Pending
	}

	s.mu.Lock()
	s.wake = w
	s.mu.Unlock()

	if s.watching != s.node {
		s.watching = s.node
		go s.watch(s.node)
	}

	return zero, Pending
}

func (s *feedStream[T]) watch(node *Feed[T]) {
	// Either way, the next poll makes progress.
	select {
	case <-s.ctx.Done():
	case <-node.Ready:
	}

	s.mu.Lock()
	w := s.wake
	s.mu.Unlock()

	w()
}
