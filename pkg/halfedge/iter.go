package halfedge

import (
	"fmt"
	"iter"
)

// Ref is the set of reference types a traversal can yield.
type Ref interface {
	VertRef | EdgeRef | FaceRef
}

type iterState uint8

const (
	iterNotStarted iterState = iota
	iterRunning
	iterExhausted
)

// Iter is a lazy, single-pass traversal over references in a Mesh. Use it
// like bufio.Scanner:
//
//	it := m.FaceVerts(f)
//	for it.Next() {
//		v := it.Ref()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// Once Next returns false the iterator is exhausted for good. Err is nil
// when the traversal finished normally and wraps ErrDangling or
// ErrOpenCycle when it stopped on a broken link.
type Iter[R Ref] struct {
	state iterState
	cur   R
	err   error
	step  func() (R, bool, error)
}

// VertIter yields vertex references.
type VertIter = Iter[VertRef]

// EdgeIter yields half-edge references.
type EdgeIter = Iter[EdgeRef]

// FaceIter yields face references.
type FaceIter = Iter[FaceRef]

func newIter[R Ref](step func() (R, bool, error)) *Iter[R] {
	return &Iter[R]{step: step}
}

// Next advances to the next reference and reports whether there is one.
func (it *Iter[R]) Next() bool {
	if it.state == iterExhausted {
		return false
	}
	it.state = iterRunning
	r, ok, err := it.step()
	if err != nil || !ok {
		it.state = iterExhausted
		it.err = err
		it.step = nil
		return false
	}
	it.cur = r
	return true
}

// Ref returns the reference produced by the last call to Next.
func (it *Iter[R]) Ref() R { return it.cur }

// Err returns the error that stopped the traversal, if any.
func (it *Iter[R]) Err() error { return it.err }

// Collect drains the iterator.
func (it *Iter[R]) Collect() ([]R, error) {
	var out []R
	for it.Next() {
		out = append(out, it.Ref())
	}
	return out, it.Err()
}

// Count drains the iterator and returns how many references it yielded.
func (it *Iter[R]) Count() int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}

// All returns the remaining references as a range-over-func sequence. Check
// Err after the loop.
func (it *Iter[R]) All() iter.Seq[R] {
	return func(yield func(R) bool) {
		for it.Next() {
			if !yield(it.Ref()) {
				return
			}
		}
	}
}

// cycleWalk follows next links from start and stops when start comes
// around again.
func (m *Mesh) cycleWalk(start EdgeRef) func() (EdgeRef, bool, error) {
	cur := NilEdge
	steps := 0
	return func() (EdgeRef, bool, error) {
		if cur.IsNil() {
			if !m.EdgeValid(start) {
				return NilEdge, false, dangling("cycle start %s", start)
			}
			cur = start
			return cur, true, nil
		}
		next := m.edges[cur].e.Next
		if !m.EdgeValid(next) {
			return NilEdge, false, dangling("next of %s", cur)
		}
		if next == start {
			return NilEdge, false, nil
		}
		steps++
		if steps >= len(m.edges) {
			return NilEdge, false, fmt.Errorf("cycle from %s: %w", start, ErrOpenCycle)
		}
		cur = next
		return cur, true, nil
	}
}

type fanPhase uint8

const (
	fanStart fanPhase = iota
	fanClockwise
	fanCounterClockwise
)

// fanWalk yields the half-edges leaving the origin of start. It turns
// clockwise (pair, then next) until it returns to start. If it reaches the
// boundary first it goes back to start and turns counter-clockwise (prev,
// then pair) until it reaches the boundary on the other side.
func (m *Mesh) fanWalk(start EdgeRef) func() (EdgeRef, bool, error) {
	phase := fanStart
	cur := start
	steps := 0
	return func() (EdgeRef, bool, error) {
		for {
			switch phase {
			case fanStart:
				if !m.EdgeValid(start) {
					return NilEdge, false, dangling("fan start %s", start)
				}
				phase = fanClockwise
				return start, true, nil

			case fanClockwise:
				next, boundary, err := m.clockwise(cur)
				if err != nil {
					return NilEdge, false, err
				}
				if boundary {
					phase = fanCounterClockwise
					cur = start
					continue
				}
				if next == start {
					return NilEdge, false, nil
				}
				if steps++; steps >= len(m.edges) {
					return NilEdge, false, fmt.Errorf("fan around %s: %w", start, ErrOpenCycle)
				}
				cur = next
				return cur, true, nil

			case fanCounterClockwise:
				next, boundary, err := m.counterClockwise(cur)
				if err != nil {
					return NilEdge, false, err
				}
				if boundary || next == start {
					return NilEdge, false, nil
				}
				if steps++; steps >= len(m.edges) {
					return NilEdge, false, fmt.Errorf("fan around %s: %w", start, ErrOpenCycle)
				}
				cur = next
				return cur, true, nil
			}
		}
	}
}

// clockwise returns the next outgoing half-edge clockwise around the origin
// of e, or boundary=true when e has no pair.
func (m *Mesh) clockwise(e EdgeRef) (EdgeRef, bool, error) {
	ep, err := m.edgePtr(e)
	if err != nil {
		return NilEdge, false, err
	}
	if ep.Pair.IsNil() {
		return NilEdge, true, nil
	}
	pp, err := m.edgePtr(ep.Pair)
	if err != nil {
		return NilEdge, false, fmt.Errorf("pair of %s: %w", e, err)
	}
	if !m.EdgeValid(pp.Next) {
		return NilEdge, false, dangling("next of %s", ep.Pair)
	}
	return pp.Next, false, nil
}

// counterClockwise returns the next outgoing half-edge counter-clockwise
// around the origin of e, or boundary=true when the incoming edge before e
// has no pair.
func (m *Mesh) counterClockwise(e EdgeRef) (EdgeRef, bool, error) {
	prev, err := m.Prev(e)
	if err != nil {
		return NilEdge, false, err
	}
	pp := &m.edges[prev].e
	if pp.Pair.IsNil() {
		return NilEdge, true, nil
	}
	if !m.EdgeValid(pp.Pair) {
		return NilEdge, false, dangling("pair of %s", prev)
	}
	return pp.Pair, false, nil
}
