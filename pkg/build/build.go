// Package build wires indexed triangle soups into half-edge meshes. It is
// strict: input that is not an oriented 2-manifold (with or without
// boundary) is rejected, never repaired.
package build

import (
	"errors"
	"fmt"

	"github.com/chazu/hemesh/pkg/halfedge"
	"github.com/chazu/hemesh/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"
)

// ErrNonManifold is returned when a directed edge is used by more than one
// triangle, which happens for non-manifold edges and inconsistent winding.
var ErrNonManifold = errors.New("build: non-manifold input")

// ErrBadTriangle is returned for out-of-range or repeated vertex indices.
var ErrBadTriangle = errors.New("build: bad triangle")

// Options configures construction.
type Options struct {
	Logger *zap.Logger

	// SkipAttrs leaves face normals and centroids at their defaults.
	SkipAttrs bool
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// FromKernelMesh builds a half-edge mesh from a kernel mesh.
func FromKernelMesh(km *kernel.Mesh, opts Options) (*halfedge.Mesh, error) {
	if km == nil {
		return nil, fmt.Errorf("build: nil mesh")
	}
	if err := km.Check(); err != nil {
		return nil, fmt.Errorf("build %q: %w", km.Name, err)
	}
	tris := make([][3]int, km.TriangleCount())
	for i := range tris {
		tris[i] = km.Triangle(i)
	}
	m, err := FromTriangles(km.Positions, tris, opts)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", km.Name, err)
	}
	return m, nil
}

// FromTriangles builds a half-edge mesh with one vertex per position and
// one face per triangle. Triangles must be wound consistently. Edges on the
// boundary of an open surface are left without a pair, and each boundary
// vertex gets its outgoing boundary edge so vertex fans start there.
func FromTriangles(positions []v3.Vec, tris [][3]int, opts Options) (*halfedge.Mesh, error) {
	log := opts.logger()
	m := halfedge.New(halfedge.WithLogger(log))

	verts := make([]halfedge.VertRef, len(positions))
	for i, p := range positions {
		verts[i] = m.AddVert(p)
	}

	// directed maps (from, to) position indices to the half-edge running
	// between them.
	directed := make(map[[2]int]halfedge.EdgeRef, 3*len(tris))

	for ti, tri := range tris {
		if err := checkTriangle(tri, len(positions)); err != nil {
			return nil, fmt.Errorf("triangle %d: %w", ti, err)
		}

		var es [3]halfedge.EdgeRef
		for j := 0; j < 3; j++ {
			key := [2]int{tri[j], tri[(j+1)%3]}
			if prev, dup := directed[key]; dup {
				return nil, fmt.Errorf("triangle %d: edge %d->%d already used by %s: %w",
					ti, key[0], key[1], prev, ErrNonManifold)
			}
			es[j] = m.AddEdgeFrom(verts[tri[j]])
			directed[key] = es[j]
		}

		f := m.AddFaceWithEdge(es[0])
		for j := 0; j < 3; j++ {
			if err := wire(m, es[j], es[(j+1)%3], f, verts[tri[j]]); err != nil {
				return nil, fmt.Errorf("triangle %d: %w", ti, err)
			}
		}
	}

	boundary := 0
	for key, e := range directed {
		pair, ok := directed[[2]int{key[1], key[0]}]
		if !ok {
			boundary++
			// Boundary edges win the outgoing slot of their origin.
			if err := m.SetVertEdge(verts[key[0]], e); err != nil {
				return nil, err
			}
			continue
		}
		if err := m.SetPair(e, pair); err != nil {
			return nil, err
		}
	}

	if !opts.SkipAttrs {
		if err := m.ComputeAllAttrs(); err != nil {
			return nil, err
		}
	}

	log.Debug("built half-edge mesh",
		zap.Int("verts", m.NumVerts()),
		zap.Int("edges", m.NumEdges()),
		zap.Int("faces", m.NumFaces()),
		zap.Int("boundary_edges", boundary),
	)
	return m, nil
}

func checkTriangle(tri [3]int, n int) error {
	for _, idx := range tri {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d out of range (%d vertices): %w", idx, n, ErrBadTriangle)
		}
	}
	if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
		return fmt.Errorf("repeated index in %v: %w", tri, ErrBadTriangle)
	}
	return nil
}

// wire links e into face f ahead of next and makes e the outgoing edge of
// its origin if that vertex has none yet.
func wire(m *halfedge.Mesh, e, next halfedge.EdgeRef, f halfedge.FaceRef, origin halfedge.VertRef) error {
	if err := m.SetNext(e, next); err != nil {
		return err
	}
	if err := m.SetFace(e, f); err != nil {
		return err
	}
	if v, _ := m.Vert(origin); v.Edge.IsNil() {
		return m.SetVertEdge(origin, e)
	}
	return nil
}
