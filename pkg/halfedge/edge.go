package halfedge

import "fmt"

// Edge is one directed half of an undirected mesh edge. Face is the face on
// its left; Pair is the opposite half-edge, or NilEdge on the mesh boundary.
type Edge struct {
	ID     EdgeID
	Origin VertRef
	Face   FaceRef
	Next   EdgeRef
	Pair   EdgeRef
}

// Equal compares edges by identity, not by their links.
func (e Edge) Equal(o Edge) bool { return e.ID == o.ID }

// Key returns the identity of e for use as a map key.
func (e Edge) Key() EdgeID { return e.ID }

// SetNext links e to the next half-edge around its face.
func (m *Mesh) SetNext(e, next EdgeRef) error {
	if !next.IsNil() && !m.EdgeValid(next) {
		return fmt.Errorf("set next of %s: %w", e, dangling("edge %s", next))
	}
	ep, err := m.edgePtr(e)
	if err != nil {
		return fmt.Errorf("set next: %w", err)
	}
	ep.Next = next
	return nil
}

// SetPair links e to its opposite half-edge. Only e is changed; callers
// pairing two edges set both sides.
func (m *Mesh) SetPair(e, pair EdgeRef) error {
	if !pair.IsNil() && !m.EdgeValid(pair) {
		return fmt.Errorf("set pair of %s: %w", e, dangling("edge %s", pair))
	}
	ep, err := m.edgePtr(e)
	if err != nil {
		return fmt.Errorf("set pair: %w", err)
	}
	ep.Pair = pair
	return nil
}

// SetOrigin sets the vertex e starts at.
func (m *Mesh) SetOrigin(e EdgeRef, origin VertRef) error {
	if !origin.IsNil() && !m.VertValid(origin) {
		return fmt.Errorf("set origin of %s: %w", e, dangling("vertex %s", origin))
	}
	ep, err := m.edgePtr(e)
	if err != nil {
		return fmt.Errorf("set origin: %w", err)
	}
	ep.Origin = origin
	return nil
}

// SetFace sets the face on the left of e.
func (m *Mesh) SetFace(e EdgeRef, face FaceRef) error {
	if !face.IsNil() && !m.FaceValid(face) {
		return fmt.Errorf("set face of %s: %w", e, dangling("face %s", face))
	}
	ep, err := m.edgePtr(e)
	if err != nil {
		return fmt.Errorf("set face: %w", err)
	}
	ep.Face = face
	return nil
}

// EdgeIsValid reports whether e is live and its links can be followed.
// The pair is checked first, then face, origin and next, as that is the
// usual order in which they go bad. An empty pair is a boundary edge and
// passes; a pair that was removed does not.
func (m *Mesh) EdgeIsValid(e EdgeRef) bool {
	ed, ok := m.Edge(e)
	if !ok {
		return false
	}
	return (ed.Pair.IsNil() || m.EdgeValid(ed.Pair)) &&
		m.FaceValid(ed.Face) &&
		m.VertValid(ed.Origin) &&
		m.EdgeValid(ed.Next)
}

// IsBoundary reports whether e has no opposite half-edge.
func (m *Mesh) IsBoundary(e EdgeRef) bool {
	ed, ok := m.Edge(e)
	return ok && ed.Pair.IsNil()
}

// Target returns the vertex e points to, which is the origin of its next
// edge.
func (m *Mesh) Target(e EdgeRef) (VertRef, error) {
	ep, err := m.edgePtr(e)
	if err != nil {
		return NilVert, err
	}
	np, err := m.edgePtr(ep.Next)
	if err != nil {
		return NilVert, fmt.Errorf("next of %s: %w", e, err)
	}
	if !m.VertValid(np.Origin) {
		return NilVert, dangling("origin of %s", ep.Next)
	}
	return np.Origin, nil
}

// Prev returns the half-edge whose next is e, found by walking e's face
// cycle.
func (m *Mesh) Prev(e EdgeRef) (EdgeRef, error) {
	it := m.FaceCycle(e)
	prev := NilEdge
	for it.Next() {
		prev = it.Ref()
	}
	if err := it.Err(); err != nil {
		return NilEdge, fmt.Errorf("prev of %s: %w", e, err)
	}
	return prev, nil
}

// FaceCycle walks next links starting at e until the walk returns to e.
func (m *Mesh) FaceCycle(e EdgeRef) *EdgeIter {
	return newIter(m.cycleWalk(e))
}

// EdgeVerts yields the origin of e, then its target.
func (m *Mesh) EdgeVerts(e EdgeRef) *VertIter {
	step := 0
	return newIter(func() (VertRef, bool, error) {
		step++
		switch step {
		case 1:
			ep, err := m.edgePtr(e)
			if err != nil {
				return NilVert, false, err
			}
			if !m.VertValid(ep.Origin) {
				return NilVert, false, dangling("origin of %s", e)
			}
			return ep.Origin, true, nil
		case 2:
			t, err := m.Target(e)
			if err != nil {
				return NilVert, false, err
			}
			return t, true, nil
		}
		return NilVert, false, nil
	})
}

// EdgeEdges yields the half-edges leaving the origin of e in clockwise
// order starting with e, then the half-edges leaving its target in
// clockwise order starting with e's next. Each fan that reaches the mesh
// boundary finishes counter-clockwise from its start edge.
func (m *Mesh) EdgeEdges(e EdgeRef) *EdgeIter {
	origin := m.fanWalk(e)
	var target func() (EdgeRef, bool, error)
	return newIter(func() (EdgeRef, bool, error) {
		if target == nil {
			r, ok, err := origin()
			if ok || err != nil {
				return r, ok, err
			}
			ep, err := m.edgePtr(e)
			if err != nil {
				return NilEdge, false, err
			}
			if !m.EdgeValid(ep.Next) {
				return NilEdge, false, dangling("next of %s", e)
			}
			target = m.fanWalk(ep.Next)
		}
		return target()
	})
}

// EdgeFaces yields the face of e, then the face of its pair. The second item
// is NilFace when e is on the boundary.
func (m *Mesh) EdgeFaces(e EdgeRef) *FaceIter {
	step := 0
	return newIter(func() (FaceRef, bool, error) {
		step++
		ep, err := m.edgePtr(e)
		if err != nil {
			return NilFace, false, err
		}
		switch step {
		case 1:
			if !ep.Face.IsNil() && !m.FaceValid(ep.Face) {
				return NilFace, false, dangling("face of %s", e)
			}
			return ep.Face, true, nil
		case 2:
			return m.pairFace(ep.Pair)
		}
		return NilFace, false, nil
	})
}

// pairFace resolves the face across a pair link. An empty pair or an empty
// face on the pair is the boundary and yields NilFace.
func (m *Mesh) pairFace(pair EdgeRef) (FaceRef, bool, error) {
	if pair.IsNil() {
		return NilFace, true, nil
	}
	pp, err := m.edgePtr(pair)
	if err != nil {
		return NilFace, false, fmt.Errorf("pair: %w", err)
	}
	if !pp.Face.IsNil() && !m.FaceValid(pp.Face) {
		return NilFace, false, dangling("face of %s", pair)
	}
	return pp.Face, true, nil
}
