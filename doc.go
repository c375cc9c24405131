// Package vista is the root of a set of packages
// for observing an ordered collection through a stream of diffs.
//
// A producer owns a vobs.Vector and mutates it in place.
// Each mutation is broadcast to every subscriber as a vdiff.Diff,
// so that a consumer holding a copy of the collection
// can replay the diffs and stay in sync.
// Subscribers have bounded queues:
// a subscriber that falls too far behind
// receives a single Reset with the current contents
// instead of the diffs it missed.
//
// Diff streams are poll-based vstream.Stream values,
// which lets combinators such as vlimit.Limit
// wait on more than one input without spawning goroutines.
// Limit presents only the first n elements of a collection,
// where n may change over time.
//
// Collections are persistent vseq.Vector values,
// so snapshots and Reset payloads share structure with the producer.
//
// Package vistatest contains helpers for testing code
// that consumes diff streams.
package vista
