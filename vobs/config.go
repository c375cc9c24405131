package vobs

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gordian-engine/vista/vseq"
)

// DefaultCapacity is a reasonable [VectorConfig.Capacity]
// for callers without specific latency requirements.
const DefaultCapacity = 16

// VectorConfig is the configuration passed to [NewVector].
type VectorConfig[T any] struct {
	// How many undelivered diffs each subscriber may accumulate.
	// Once a subscriber has Capacity pending diffs,
	// the next mutation discards its backlog
	// and the subscriber instead receives a single reset.
	Capacity int `validate:"gte=1"`

	// The initial contents of the vector.
	// Starting from non-empty contents does not broadcast anything.
	Initial vseq.Vector[T] `validate:"-"`

	// Optional metrics.
	// The same Metrics value may be shared by several vectors.
	Metrics *Metrics `validate:"-"`
}

var configValidate = validator.New()

// Validate reports whether c is usable by [NewVector].
func (c VectorConfig[T]) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid vector config: %w", err)
	}
	return nil
}
