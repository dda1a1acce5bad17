package halfedge

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"
)

type vertSlot struct {
	v       Vertex
	removed bool
}

type edgeSlot struct {
	e       Edge
	removed bool
}

type faceSlot struct {
	f       Face
	removed bool
}

// Mesh owns the vertices, half-edges and faces of one half-edge structure.
// Slots are append-only: removal leaves a tombstone so references to the
// removed entity report invalid instead of aliasing a newer one.
//
// A Mesh is not safe for concurrent mutation.
type Mesh struct {
	verts []vertSlot
	edges []edgeSlot
	faces []faceSlot

	vertSeq VertID
	edgeSeq EdgeID
	faceSeq FaceID

	liveVerts, liveEdges, liveFaces int

	log *zap.Logger
}

// Option configures a Mesh.
type Option func(*Mesh)

// WithLogger sets the logger used for debug output. The default is a no-op
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mesh) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates an empty Mesh.
func New(opts ...Option) *Mesh {
	m := &Mesh{log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NumVerts returns the number of live vertices.
func (m *Mesh) NumVerts() int { return m.liveVerts }

// NumEdges returns the number of live half-edges.
func (m *Mesh) NumEdges() int { return m.liveEdges }

// NumFaces returns the number of live faces.
func (m *Mesh) NumFaces() int { return m.liveFaces }

// Verts returns references to all live vertices in id order.
func (m *Mesh) Verts() []VertRef {
	refs := make([]VertRef, 0, m.liveVerts)
	for i := range m.verts {
		if !m.verts[i].removed {
			refs = append(refs, VertRef(i))
		}
	}
	return refs
}

// Edges returns references to all live half-edges in id order.
func (m *Mesh) Edges() []EdgeRef {
	refs := make([]EdgeRef, 0, m.liveEdges)
	for i := range m.edges {
		if !m.edges[i].removed {
			refs = append(refs, EdgeRef(i))
		}
	}
	return refs
}

// Faces returns references to all live faces in id order.
func (m *Mesh) Faces() []FaceRef {
	refs := make([]FaceRef, 0, m.liveFaces)
	for i := range m.faces {
		if !m.faces[i].removed {
			refs = append(refs, FaceRef(i))
		}
	}
	return refs
}

// ---------------------------------------------------------------------------
// Liveness
// ---------------------------------------------------------------------------

// VertValid reports whether r refers to a live vertex.
func (m *Mesh) VertValid(r VertRef) bool {
	return r >= 0 && int(r) < len(m.verts) && !m.verts[r].removed
}

// EdgeValid reports whether r refers to a live half-edge.
func (m *Mesh) EdgeValid(r EdgeRef) bool {
	return r >= 0 && int(r) < len(m.edges) && !m.edges[r].removed
}

// FaceValid reports whether r refers to a live face.
func (m *Mesh) FaceValid(r FaceRef) bool {
	return r >= 0 && int(r) < len(m.faces) && !m.faces[r].removed
}

// ---------------------------------------------------------------------------
// Upgrade: value snapshots of live entities
// ---------------------------------------------------------------------------

// Vert returns a copy of the vertex r refers to, or false if r is empty or
// the vertex was removed.
func (m *Mesh) Vert(r VertRef) (Vertex, bool) {
	if !m.VertValid(r) {
		return Vertex{}, false
	}
	return m.verts[r].v, true
}

// Edge returns a copy of the half-edge r refers to, or false if r is empty
// or the edge was removed.
func (m *Mesh) Edge(r EdgeRef) (Edge, bool) {
	if !m.EdgeValid(r) {
		return Edge{}, false
	}
	return m.edges[r].e, true
}

// Face returns a copy of the face r refers to, or false if r is empty or
// the face was removed.
func (m *Mesh) Face(r FaceRef) (Face, bool) {
	if !m.FaceValid(r) {
		return Face{}, false
	}
	return m.faces[r].f, true
}

func (m *Mesh) vertPtr(r VertRef) (*Vertex, error) {
	if !m.VertValid(r) {
		return nil, dangling("vertex %s", r)
	}
	return &m.verts[r].v, nil
}

func (m *Mesh) edgePtr(r EdgeRef) (*Edge, error) {
	if !m.EdgeValid(r) {
		return nil, dangling("edge %s", r)
	}
	return &m.edges[r].e, nil
}

func (m *Mesh) facePtr(r FaceRef) (*Face, error) {
	if !m.FaceValid(r) {
		return nil, dangling("face %s", r)
	}
	return &m.faces[r].f, nil
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// AddVert adds a vertex at pos with no outgoing edge.
func (m *Mesh) AddVert(pos v3.Vec) VertRef {
	m.vertSeq++
	m.verts = append(m.verts, vertSlot{v: Vertex{ID: m.vertSeq, Pos: pos, Edge: NilEdge}})
	m.liveVerts++
	return VertRef(len(m.verts) - 1)
}

// AddEdge adds a half-edge with all links empty.
func (m *Mesh) AddEdge() EdgeRef {
	return m.AddEdgeFrom(NilVert)
}

// AddEdgeFrom adds a half-edge whose origin is the given vertex.
func (m *Mesh) AddEdgeFrom(origin VertRef) EdgeRef {
	m.edgeSeq++
	m.edges = append(m.edges, edgeSlot{e: Edge{
		ID:     m.edgeSeq,
		Origin: origin,
		Face:   NilFace,
		Next:   NilEdge,
		Pair:   NilEdge,
	}})
	m.liveEdges++
	return EdgeRef(len(m.edges) - 1)
}

// AddFace adds a face with no boundary edge.
func (m *Mesh) AddFace() FaceRef {
	return m.AddFaceWithEdge(NilEdge)
}

// AddFaceWithEdge adds a face bounded by an existing half-edge. The edge's
// face link is not changed.
func (m *Mesh) AddFaceWithEdge(e EdgeRef) FaceRef {
	m.faceSeq++
	m.faces = append(m.faces, faceSlot{f: Face{
		ID:     m.faceSeq,
		Edge:   e,
		Normal: v3.Vec{X: 0, Y: 0, Z: 1},
	}})
	m.liveFaces++
	return FaceRef(len(m.faces) - 1)
}

// ---------------------------------------------------------------------------
// Removal
// ---------------------------------------------------------------------------

// RemoveVert releases a vertex. References to it become dangling.
func (m *Mesh) RemoveVert(r VertRef) error {
	if !m.VertValid(r) {
		return fmt.Errorf("remove: %w", dangling("vertex %s", r))
	}
	m.verts[r].removed = true
	m.liveVerts--
	m.log.Debug("removed vertex", zap.Stringer("vert", r), zap.Uint32("id", uint32(m.verts[r].v.ID)))
	return nil
}

// RemoveEdge releases a half-edge. References to it become dangling.
func (m *Mesh) RemoveEdge(r EdgeRef) error {
	if !m.EdgeValid(r) {
		return fmt.Errorf("remove: %w", dangling("edge %s", r))
	}
	m.edges[r].removed = true
	m.liveEdges--
	m.log.Debug("removed edge", zap.Stringer("edge", r), zap.Uint32("id", uint32(m.edges[r].e.ID)))
	return nil
}

// RemoveFace releases a face. References to it become dangling.
func (m *Mesh) RemoveFace(r FaceRef) error {
	if !m.FaceValid(r) {
		return fmt.Errorf("remove: %w", dangling("face %s", r))
	}
	m.faces[r].removed = true
	m.liveFaces--
	m.log.Debug("removed face", zap.Stringer("face", r), zap.Uint32("id", uint32(m.faces[r].f.ID)))
	return nil
}
