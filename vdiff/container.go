package vdiff

// Pair holds zero, one, or two diffs.
//
// A stream transform that rewrites one input diff
// into at most two output diffs returns a Pair,
// which avoids allocating a slice per input diff.
type Pair[T any] struct {
	n  uint8
	ds [2]Diff[T]
}

// Push adds d to p.
// It panics if p already holds two diffs.
func (p *Pair[T]) Push(d Diff[T]) {
	if p.n == 2 {
		panic("BUG: Push called on full Pair")
	}
	p.ds[p.n] = d
	p.n++
}

// Len returns the number of diffs in p, from zero to two.
func (p Pair[T]) Len() int {
	return int(p.n)
}

// At returns the diff at index i, which must be less than p.Len().
func (p Pair[T]) At(i int) Diff[T] {
	if i >= int(p.n) {
		panic("BUG: Pair index out of range")
	}
	return p.ds[i]
}

// Buf is the side buffer a [Container] may use
// when a transform produces more diffs than fit in one stream item.
// It holds at most one diff.
type Buf[T any] struct {
	d  Diff[T]
	ok bool
}

// Container describes how diffs are grouped into the items of a stream.
//
// I is the stream item type:
// [Diff][T] for [Singular] and []Diff[T] for [Batched].
type Container[T, I any] interface {
	// FromDiff wraps a single diff as a stream item.
	FromDiff(Diff[T]) I

	// Transform rewrites every diff in item through f,
	// returning the resulting item
	// and false if f produced no diffs at all.
	//
	// Output that does not fit in the returned item is held in buf,
	// to be retrieved with PopBuf.
	// Callers must drain buf before calling Transform again.
	Transform(item I, buf *Buf[T], f func(Diff[T]) Pair[T]) (I, bool)

	// PopBuf returns and clears the buffered diff as an item, if any.
	PopBuf(buf *Buf[T]) (I, bool)
}

// Singular is the [Container] for streams that deliver one diff per item.
type Singular[T any] struct{}

var _ Container[int, Diff[int]] = Singular[int]{}

func (Singular[T]) FromDiff(d Diff[T]) Diff[T] {
	return d
}

func (Singular[T]) Transform(item Diff[T], buf *Buf[T], f func(Diff[T]) Pair[T]) (Diff[T], bool) {
	if buf.ok {
		panic("BUG: Singular.Transform called with non-empty buffer")
	}

	out := f(item)
	switch out.Len() {
	case 0:
		return Diff[T]{}, false
	case 1:
		return out.At(0), true
	default:
		buf.d = out.At(1)
		buf.ok = true
		return out.At(0), true
	}
}

func (Singular[T]) PopBuf(buf *Buf[T]) (Diff[T], bool) {
	if !buf.ok {
		return Diff[T]{}, false
	}
	d := buf.d
	*buf = Buf[T]{}
	return d, true
}

// Batched is the [Container] for streams whose items are transactions:
// ordered batches of diffs that are applied together.
//
// Since a batch can hold any number of diffs,
// Batched never uses the side buffer.
type Batched[T any] struct{}

var _ Container[int, []Diff[int]] = Batched[int]{}

func (Batched[T]) FromDiff(d Diff[T]) []Diff[T] {
	return []Diff[T]{d}
}

func (Batched[T]) Transform(item []Diff[T], _ *Buf[T], f func(Diff[T]) Pair[T]) ([]Diff[T], bool) {
	var out []Diff[T]
	for _, d := range item {
		p := f(d)
		for i := range p.Len() {
			out = append(out, p.At(i))
		}
	}
	return out, len(out) > 0
}

func (Batched[T]) PopBuf(*Buf[T]) ([]Diff[T], bool) {
	return nil, false
}
