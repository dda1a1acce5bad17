package halfedge

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"
)

// Face is a polygon bounded by a cycle of half-edges. Normal and Center are
// cached by ComputeAttrs.
type Face struct {
	ID     FaceID
	Edge   EdgeRef
	Normal v3.Vec
	Center v3.Vec
}

// Equal compares faces by identity.
func (f Face) Equal(o Face) bool { return f.ID == o.ID }

// Key returns the identity of f for use as a map key.
func (f Face) Key() FaceID { return f.ID }

// SetFaceEdge sets the half-edge that f's boundary walk starts at.
func (m *Mesh) SetFaceEdge(f FaceRef, e EdgeRef) error {
	if !e.IsNil() && !m.EdgeValid(e) {
		return fmt.Errorf("set edge of %s: %w", f, dangling("edge %s", e))
	}
	fp, err := m.facePtr(f)
	if err != nil {
		return fmt.Errorf("set face edge: %w", err)
	}
	fp.Edge = e
	return nil
}

// FaceIsValid reports whether f is live and its boundary edge is valid.
func (m *Mesh) FaceIsValid(f FaceRef) bool {
	fc, ok := m.Face(f)
	return ok && m.EdgeIsValid(fc.Edge)
}

// NumVertices returns the number of corners of f.
func (m *Mesh) NumVertices(f FaceRef) int {
	return m.FaceVerts(f).Count()
}

// ComputeAttrs caches the centroid and unit normal of a triangular face.
// The normal follows the right-hand rule over the half-edge order, so it
// points out of a counter-clockwise wound face.
//
// Only call this once the face cycle and vertex links are wired up.
func (m *Mesh) ComputeAttrs(f FaceRef) error {
	fp, err := m.facePtr(f)
	if err != nil {
		return fmt.Errorf("compute attrs: %w", err)
	}
	verts, err := m.FaceVerts(f).Collect()
	if err != nil {
		return fmt.Errorf("compute attrs of %s: %w", f, err)
	}

	assert(len(verts) == 3, "should have 3 adjacent vertices")
	if len(verts) != 3 {
		return fmt.Errorf("compute attrs of %s: %w (%d vertices)", f, ErrNotTriangle, len(verts))
	}

	var center v3.Vec
	for _, vr := range verts {
		center = center.Add(m.verts[vr].v.Pos)
	}
	fp.Center = center.DivScalar(float64(len(verts)))

	a := m.verts[verts[0]].v.Pos
	s1 := m.verts[verts[1]].v.Pos.Sub(a)
	s2 := m.verts[verts[2]].v.Pos.Sub(a)
	fp.Normal = s1.Cross(s2).Normalize()
	return nil
}

// ComputeAllAttrs runs ComputeAttrs on every live face and stops at the
// first failure.
func (m *Mesh) ComputeAllAttrs() error {
	for _, f := range m.Faces() {
		if err := m.ComputeAttrs(f); err != nil {
			return err
		}
	}
	m.log.Debug("computed face attributes", zap.Int("faces", m.liveFaces))
	return nil
}

// FaceVerts yields the corners of f in half-edge order, starting at the
// origin of its boundary edge.
func (m *Mesh) FaceVerts(f FaceRef) *VertIter {
	edges := m.faceEdgeWalk(f)
	return newIter(func() (VertRef, bool, error) {
		e, ok, err := edges()
		if !ok || err != nil {
			return NilVert, false, err
		}
		o := m.edges[e].e.Origin
		if !m.VertValid(o) {
			return NilVert, false, dangling("origin of %s", e)
		}
		return o, true, nil
	})
}

// FaceEdges yields the half-edges around f starting at its boundary edge.
func (m *Mesh) FaceEdges(f FaceRef) *EdgeIter {
	return newIter(m.faceEdgeWalk(f))
}

// FaceFaces yields, for each side of f in order, the face across that side.
// Boundary sides yield NilFace.
func (m *Mesh) FaceFaces(f FaceRef) *FaceIter {
	edges := m.faceEdgeWalk(f)
	return newIter(func() (FaceRef, bool, error) {
		e, ok, err := edges()
		if !ok || err != nil {
			return NilFace, false, err
		}
		nf, ok, err := m.pairFace(m.edges[e].e.Pair)
		if err != nil {
			return NilFace, false, fmt.Errorf("across %s: %w", e, err)
		}
		return nf, ok, nil
	})
}

func (m *Mesh) faceEdgeWalk(f FaceRef) func() (EdgeRef, bool, error) {
	fp, err := m.facePtr(f)
	if err != nil {
		return func() (EdgeRef, bool, error) { return NilEdge, false, err }
	}
	return m.cycleWalk(fp.Edge)
}
