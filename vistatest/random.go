package vistatest

import (
	"math/rand/v2"

	"github.com/gordian-engine/vista/vobs"
	"github.com/gordian-engine/vista/vseq"
)

// Mutator applies random, always-valid mutations to an observable vector.
// Every inserted value is distinct, which makes misplaced elements
// easy to spot in test failures.
type Mutator struct {
	rng  *rand.Rand
	next int
}

// NewMutator returns a Mutator drawing from rng.
func NewMutator(rng *rand.Rand) *Mutator {
	return &Mutator{rng: rng}
}

func (m *Mutator) value() int {
	m.next++
	return m.next
}

func (m *Mutator) values(n int) vseq.Vector[int] {
	var out vseq.Vector[int]
	for range n {
		out = out.PushBack(m.value())
	}
	return out
}

// Mutate applies one random mutation to v,
// returning the name of the mutation performed.
func (m *Mutator) Mutate(v *vobs.Vector[int]) string {
	n := v.Len()

	// Growth is weighted slightly above shrinkage,
	// so vectors spend most of their time non-empty.
	switch m.rng.IntN(14) {
	case 0, 1:
		v.PushBack(m.value())
		return "PushBack"
	case 2, 3:
		v.PushFront(m.value())
		return "PushFront"
	case 4:
		v.Append(m.values(1 + m.rng.IntN(4)))
		return "Append"
	case 5, 6:
		v.Insert(m.rng.IntN(n+1), m.value())
		return "Insert"
	case 7:
		if n == 0 {
			v.PushBack(m.value())
			return "PushBack"
		}
		v.Set(m.rng.IntN(n), m.value())
		return "Set"
	case 8:
		if n == 0 {
			return "PopFront on empty"
		}
		v.PopFront()
		return "PopFront"
	case 9:
		if n == 0 {
			return "PopBack on empty"
		}
		v.PopBack()
		return "PopBack"
	case 10:
		if n == 0 {
			return "Remove on empty"
		}
		v.Remove(m.rng.IntN(n))
		return "Remove"
	case 11:
		v.Truncate(m.rng.IntN(n + 1))
		return "Truncate"
	case 12:
		v.Clear()
		return "Clear"
	default:
		v.Reset(m.values(m.rng.IntN(8)))
		return "Reset"
	}
}
