package halfedge

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a mesh corner. Edge is one of the half-edges leaving it; for a
// vertex on the boundary it should be the outgoing boundary edge so that
// fans start at the boundary.
type Vertex struct {
	ID   VertID
	Pos  v3.Vec
	Edge EdgeRef
}

// Equal compares vertices by identity.
func (v Vertex) Equal(o Vertex) bool { return v.ID == o.ID }

// Key returns the identity of v for use as a map key.
func (v Vertex) Key() VertID { return v.ID }

// SetVertEdge sets the outgoing half-edge of v.
func (m *Mesh) SetVertEdge(v VertRef, e EdgeRef) error {
	if !e.IsNil() && !m.EdgeValid(e) {
		return fmt.Errorf("set edge of %s: %w", v, dangling("edge %s", e))
	}
	vp, err := m.vertPtr(v)
	if err != nil {
		return fmt.Errorf("set vertex edge: %w", err)
	}
	vp.Edge = e
	return nil
}

// SetVertPos moves v. Face attributes are not recomputed.
func (m *Mesh) SetVertPos(v VertRef, pos v3.Vec) error {
	vp, err := m.vertPtr(v)
	if err != nil {
		return fmt.Errorf("set vertex position: %w", err)
	}
	vp.Pos = pos
	return nil
}

// VertIsValid reports whether v is live and has a live outgoing edge
// that starts at v.
func (m *Mesh) VertIsValid(v VertRef) bool {
	vx, ok := m.Vert(v)
	if !ok {
		return false
	}
	ed, ok := m.Edge(vx.Edge)
	return ok && ed.Origin == v
}

// VertEdges yields the half-edges leaving v, clockwise from its outgoing
// edge. An isolated vertex yields nothing.
func (m *Mesh) VertEdges(v VertRef) *EdgeIter {
	vp, err := m.vertPtr(v)
	if err != nil {
		return newIter(func() (EdgeRef, bool, error) { return NilEdge, false, err })
	}
	if vp.Edge.IsNil() {
		return newIter(func() (EdgeRef, bool, error) { return NilEdge, false, nil })
	}
	return newIter(m.fanWalk(vp.Edge))
}

// VertVerts yields the neighbours of v in the same order as VertEdges.
func (m *Mesh) VertVerts(v VertRef) *VertIter {
	edges := m.VertEdges(v)
	return newIter(func() (VertRef, bool, error) {
		if !edges.Next() {
			return NilVert, false, edges.Err()
		}
		t, err := m.Target(edges.Ref())
		if err != nil {
			return NilVert, false, err
		}
		return t, true, nil
	})
}

// VertFaces yields the faces incident to v in the same order as VertEdges.
// Outgoing edges without a face are skipped.
func (m *Mesh) VertFaces(v VertRef) *FaceIter {
	edges := m.VertEdges(v)
	return newIter(func() (FaceRef, bool, error) {
		for edges.Next() {
			e := edges.Ref()
			f := m.edges[e].e.Face
			if f.IsNil() {
				continue
			}
			if !m.FaceValid(f) {
				return NilFace, false, dangling("face of %s", e)
			}
			return f, true, nil
		}
		return NilFace, false, edges.Err()
	})
}

// Valence returns the number of half-edges leaving v.
func (m *Mesh) Valence(v VertRef) (int, error) {
	it := m.VertEdges(v)
	n := it.Count()
	if err := it.Err(); err != nil {
		return 0, fmt.Errorf("valence of %s: %w", v, err)
	}
	return n, nil
}
