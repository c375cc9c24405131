package vobs

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/gordian-engine/vista/vdiff"
	"github.com/gordian-engine/vista/vseq"
	"github.com/gordian-engine/vista/vstream"
)

// subscription is the per-subscriber state held by the Vector.
// All fields are guarded by the owning Vector's mutex.
type subscription[T any] struct {
	log *slog.Logger

	// Undelivered diffs, oldest first; never longer than the capacity.
	queue []vdiff.Diff[T]

	// Set when the backlog overflowed or the subscriber arrived late.
	// The next poll yields a reset of the current values.
	lagged bool

	// Retained from a Pending poll.
	wake vstream.Waker

	unsubscribed bool
}

func (s *subscription[T]) enqueue(d vdiff.Diff[T], capacity int, m *Metrics) {
	if s.lagged {
		return
	}

	if len(s.queue) < capacity {
		s.queue = append(s.queue, d)
		return
	}

	clear(s.queue)
	s.queue = s.queue[:0]
	s.lagged = true

	s.log.Debug("Subscriber lagged; pending diffs collapsed into a reset", "capacity", capacity)
	m.lag()
}

// Subscriber receives the diffs broadcast by a [Vector].
// It implements [vstream.Stream] of single diffs;
// use [*Subscriber.Batched] to receive transactions instead.
//
// A Subscriber must be polled by a single goroutine at a time.
type Subscriber[T any] struct {
	v    *Vector[T]
	s    *subscription[T]
	slot uint
	id   uuid.UUID

	// The vector's values when s was created.
	start vseq.Vector[T]
}

// Subscribe returns a new subscriber to v.
//
// If v has already broadcast any diff,
// the subscriber's first poll yields a reset of v's values at that time.
// Otherwise, the subscriber observes only later diffs,
// which apply on top of [*Subscriber.Values].
func (v *Vector[T]) Subscribe() *Subscriber[T] {
	id := uuid.New()

	v.mu.Lock()
	defer v.mu.Unlock()

	slot, ok := v.live.NextClear(0)
	if !ok || slot >= uint(len(v.slots)) {
		slot = uint(len(v.slots))
		v.slots = append(v.slots, nil)
	}

	s := &subscription[T]{
		log:    v.log.With("sub", id.String()),
		lagged: v.broadcasts > 0,
	}
	v.slots[slot] = s
	v.live.Set(slot)

	s.log.Debug("Subscribed", "slot", slot, "lagged", s.lagged)
	v.metrics.subscribed()

	return &Subscriber[T]{
		v:    v,
		s:    s,
		slot: slot,
		id:   id,

		start: v.values,
	}
}

// ID returns the subscriber's unique identifier,
// which is also its "sub" attribute in log output.
func (s *Subscriber[T]) ID() uuid.UUID {
	return s.id
}

// Values returns the observed vector's contents
// as of the call to [*Vector.Subscribe] that created s.
// Replaying every diff s yields onto Values
// reproduces the vector's current contents.
func (s *Subscriber[T]) Values() vseq.Vector[T] {
	return s.start
}

// Pending returns the number of diffs broadcast to s
// that it has not yet received.
// A lagged subscriber reports zero,
// as its backlog has been replaced by a single pending reset.
func (s *Subscriber[T]) Pending() int {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()
	return len(s.s.queue)
}

// Poll implements [vstream.Stream].
func (s *Subscriber[T]) Poll(w vstream.Waker) (vdiff.Diff[T], vstream.Status) {
	v := s.v

	v.mu.Lock()
	defer v.mu.Unlock()

	sub := s.s
	if sub.unsubscribed {
		return vdiff.Diff[T]{}, vstream.Done
	}

	if sub.lagged {
		sub.lagged = false
		return vdiff.Reset(v.values), vstream.Ready
	}

	if len(sub.queue) > 0 {
		d := sub.queue[0]
		sub.queue[0] = vdiff.Diff[T]{}
		sub.queue = sub.queue[1:]
		return d, vstream.Ready
	}

	if v.closed {
		return vdiff.Diff[T]{}, vstream.Done
	}

	sub.wake = w
	return vdiff.Diff[T]{}, vstream.Pending
}

// Close unsubscribes s, releasing its slot in the vector.
// Later polls report [vstream.Done].
// Close is idempotent.
func (s *Subscriber[T]) Close() {
	v := s.v

	v.mu.Lock()
	defer v.mu.Unlock()

	if s.s.unsubscribed {
		return
	}
	s.s.unsubscribed = true
	s.s.queue = nil
	s.s.wake = nil

	v.slots[s.slot] = nil
	v.live.Clear(s.slot)

	s.s.log.Debug("Unsubscribed", "slot", s.slot)
	v.metrics.unsubscribed()
}

// Batched returns a view of s that yields every pending diff
// as a single transaction per poll.
// s and the returned value share one backlog;
// only one of them should be polled.
func (s *Subscriber[T]) Batched() *BatchedSubscriber[T] {
	return &BatchedSubscriber[T]{s: s}
}

// BatchedSubscriber is a [Subscriber] that implements
// [vstream.Stream] of diff transactions.
// A lagged subscriber's transaction is a single reset.
type BatchedSubscriber[T any] struct {
	s *Subscriber[T]
}

// Subscriber returns the underlying single-diff subscriber.
func (b *BatchedSubscriber[T]) Subscriber() *Subscriber[T] {
	return b.s
}

// Poll implements [vstream.Stream].
func (b *BatchedSubscriber[T]) Poll(w vstream.Waker) ([]vdiff.Diff[T], vstream.Status) {
	v := b.s.v

	v.mu.Lock()
	defer v.mu.Unlock()

	sub := b.s.s
	if sub.unsubscribed {
		return nil, vstream.Done
	}

	if sub.lagged {
		sub.lagged = false
		return []vdiff.Diff[T]{vdiff.Reset(v.values)}, vstream.Ready
	}

	if len(sub.queue) > 0 {
		batch := make([]vdiff.Diff[T], len(sub.queue))
		copy(batch, sub.queue)
		clear(sub.queue)
		sub.queue = sub.queue[:0]
		return batch, vstream.Ready
	}

	if v.closed {
		return nil, vstream.Done
	}

	sub.wake = w
	return nil, vstream.Pending
}
