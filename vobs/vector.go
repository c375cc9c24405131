// Package vobs contains [Vector], an observable ordered collection.
//
// Every mutation of a Vector is expressed as a [vdiff.Diff]
// and multicast to each [Subscriber] independently.
// Subscribers have a bounded backlog:
// a subscriber that falls more than the configured capacity behind
// loses its backlog and instead receives one reset diff
// carrying the vector's value at the time it next polls.
// Writers therefore never block on slow subscribers.
package vobs

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/vista/vdiff"
	"github.com/gordian-engine/vista/vseq"
	"github.com/gordian-engine/vista/vstream"
)

// Vector is an observable ordered collection of T.
//
// Mutating methods are expected to be called from one goroutine at a time.
// Read accessors and subscriber polls are safe from any goroutine.
type Vector[T any] struct {
	log     *slog.Logger
	metrics *Metrics

	capacity int

	mu sync.Mutex

	values vseq.Vector[T]

	// Number of diffs broadcast so far.
	// Subscribers arriving after the first broadcast start with a reset.
	broadcasts uint64

	// Subscriptions indexed by slot; live tracks occupied slots.
	slots []*subscription[T]
	live  *bitset.BitSet

	closed bool
}

// NewVector returns a new Vector configured by cfg.
// It panics if cfg fails [VectorConfig.Validate].
func NewVector[T any](log *slog.Logger, cfg VectorConfig[T]) *Vector[T] {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Errorf("BUG: %w", err))
	}

	return &Vector[T]{
		log:     log,
		metrics: cfg.Metrics,

		capacity: cfg.Capacity,

		values: cfg.Initial,

		live: bitset.New(0),
	}
}

// Values returns the current contents of v.
// The returned value is an immutable snapshot.
func (v *Vector[T]) Values() vseq.Vector[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.Values().Len()
}

// IsEmpty reports whether v has no elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.Values().IsEmpty()
}

// At returns the element at index i.
// It panics if i is out of range.
func (v *Vector[T]) At(i int) T {
	return v.Values().At(i)
}

// Get returns the element at index i,
// and false if i is out of range.
func (v *Vector[T]) Get(i int) (T, bool) {
	return v.Values().Get(i)
}

// Capacity returns the per-subscriber backlog capacity.
func (v *Vector[T]) Capacity() int {
	return v.capacity
}

// Append adds every element of values to the end of v.
// Appending nothing does not broadcast a diff.
func (v *Vector[T]) Append(values vseq.Vector[T]) {
	v.update(func(vseq.Vector[T]) (vdiff.Diff[T], bool) {
		return vdiff.Append(values), !values.IsEmpty()
	})
}

// Clear removes every element.
// Clearing an empty vector does not broadcast a diff.
func (v *Vector[T]) Clear() {
	v.update(func(cur vseq.Vector[T]) (vdiff.Diff[T], bool) {
		return vdiff.Clear[T](), !cur.IsEmpty()
	})
}

// PushFront adds x at the start.
func (v *Vector[T]) PushFront(x T) {
	v.update(func(vseq.Vector[T]) (vdiff.Diff[T], bool) {
		return vdiff.PushFront(x), true
	})
}

// PushBack adds x at the end.
func (v *Vector[T]) PushBack(x T) {
	v.update(func(vseq.Vector[T]) (vdiff.Diff[T], bool) {
		return vdiff.PushBack(x), true
	})
}

// PopFront removes and returns the first element.
// If v is empty, nothing is broadcast and ok is false.
func (v *Vector[T]) PopFront() (x T, ok bool) {
	v.update(func(cur vseq.Vector[T]) (vdiff.Diff[T], bool) {
		x, ok = cur.Get(0)
		return vdiff.PopFront[T](), ok
	})
	return x, ok
}

// PopBack removes and returns the last element.
// If v is empty, nothing is broadcast and ok is false.
func (v *Vector[T]) PopBack() (x T, ok bool) {
	v.update(func(cur vseq.Vector[T]) (vdiff.Diff[T], bool) {
		x, ok = cur.Get(cur.Len() - 1)
		return vdiff.PopBack[T](), ok
	})
	return x, ok
}

// Insert places x at index i,
// shifting the elements at and after i to the right.
// It panics if i > v.Len().
func (v *Vector[T]) Insert(i int, x T) {
	v.update(func(vseq.Vector[T]) (vdiff.Diff[T], bool) {
		return vdiff.Insert(i, x), true
	})
}

// Set replaces the element at index i with x,
// returning the previous element.
// It panics if i is out of range.
func (v *Vector[T]) Set(i int, x T) (prev T) {
	v.update(func(cur vseq.Vector[T]) (vdiff.Diff[T], bool) {
		prev, _ = cur.Get(i)
		return vdiff.Set(i, x), true
	})
	return prev
}

// Remove deletes and returns the element at index i,
// shifting the later elements to the left.
// It panics if i is out of range.
func (v *Vector[T]) Remove(i int) (x T) {
	v.update(func(cur vseq.Vector[T]) (vdiff.Diff[T], bool) {
		x, _ = cur.Get(i)
		return vdiff.Remove[T](i), true
	})
	return x
}

// Truncate drops every element at index n or later.
// If n >= v.Len(), nothing is broadcast.
func (v *Vector[T]) Truncate(n int) {
	v.update(func(cur vseq.Vector[T]) (vdiff.Diff[T], bool) {
		return vdiff.Truncate[T](n), n < cur.Len()
	})
}

// Reset replaces the entire contents of v.
func (v *Vector[T]) Reset(values vseq.Vector[T]) {
	v.update(func(vseq.Vector[T]) (vdiff.Diff[T], bool) {
		return vdiff.Reset(values), true
	})
}

// Close ends every subscriber's stream
// once it has drained its pending diffs.
// Mutating v after Close panics.
func (v *Vector[T]) Close() {
	wakers := v.closeLocked()
	for _, w := range wakers {
		w()
	}
}

func (v *Vector[T]) closeLocked() []vstream.Waker {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true

	v.log.Debug("Closing observable vector", "subscribers", v.live.Count())

	return v.collectWakersLocked()
}

// update applies and broadcasts the diff returned by fn.
// fn is called with v.mu held and the current values;
// it returns false to skip the update entirely.
//
// Subscribers are woken after v.mu is released.
func (v *Vector[T]) update(fn func(cur vseq.Vector[T]) (vdiff.Diff[T], bool)) {
	wakers := v.updateLocked(fn)
	for _, w := range wakers {
		w()
	}
}

func (v *Vector[T]) updateLocked(fn func(cur vseq.Vector[T]) (vdiff.Diff[T], bool)) []vstream.Waker {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		panic("BUG: mutation of closed observable vector")
	}

	d, ok := fn(v.values)
	if !ok {
		return nil
	}

	// A precondition panic here broadcasts nothing.
	v.values = d.Apply(v.values)

	v.broadcasts++
	v.metrics.broadcast()

	for i, ok := v.live.NextSet(0); ok; i, ok = v.live.NextSet(i + 1) {
		v.slots[i].enqueue(d, v.capacity, v.metrics)
	}

	return v.collectWakersLocked()
}

func (v *Vector[T]) collectWakersLocked() []vstream.Waker {
	var wakers []vstream.Waker
	for i, ok := v.live.NextSet(0); ok; i, ok = v.live.NextSet(i + 1) {
		s := v.slots[i]
		if s.wake != nil {
			wakers = append(wakers, s.wake)
			s.wake = nil
		}
	}
	return wakers
}
