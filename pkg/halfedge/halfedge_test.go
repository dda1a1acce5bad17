package halfedge_test

import (
	"testing"

	"github.com/chazu/hemesh/pkg/build"
	"github.com/chazu/hemesh/pkg/halfedge"
	"github.com/chazu/hemesh/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

// wiredTriangle builds the triangle (0,0,0), (1,0,0), (0,1,0) by hand with
// unpaired boundary edges.
func wiredTriangle(t *testing.T) (*halfedge.Mesh, [3]halfedge.VertRef, [3]halfedge.EdgeRef, halfedge.FaceRef) {
	t.Helper()
	m := halfedge.New()

	vs := [3]halfedge.VertRef{
		m.AddVert(v3.Vec{X: 0, Y: 0, Z: 0}),
		m.AddVert(v3.Vec{X: 1, Y: 0, Z: 0}),
		m.AddVert(v3.Vec{X: 0, Y: 1, Z: 0}),
	}
	es := [3]halfedge.EdgeRef{m.AddEdgeFrom(vs[0]), m.AddEdgeFrom(vs[1]), m.AddEdgeFrom(vs[2])}
	f := m.AddFaceWithEdge(es[0])

	for i := 0; i < 3; i++ {
		require.NoError(t, m.SetNext(es[i], es[(i+1)%3]))
		require.NoError(t, m.SetFace(es[i], f))
		require.NoError(t, m.SetVertEdge(vs[i], es[i]))
	}
	return m, vs, es, f
}

func buildMesh(t *testing.T, km *kernel.Mesh) *halfedge.Mesh {
	t.Helper()
	m, err := build.FromKernelMesh(km, build.Options{})
	require.NoError(t, err)
	return m
}

func TestTriangleEndToEnd(t *testing.T) {
	m, _, es, f := wiredTriangle(t)

	require.NoError(t, m.ComputeAttrs(f))
	fc, ok := m.Face(f)
	require.True(t, ok)

	assert.InDelta(t, 1.0/3, fc.Center.X, tol)
	assert.InDelta(t, 1.0/3, fc.Center.Y, tol)
	assert.InDelta(t, 0, fc.Center.Z, tol)

	assert.InDelta(t, 0, fc.Normal.X, tol)
	assert.InDelta(t, 0, fc.Normal.Y, tol)
	assert.InDelta(t, 1, fc.Normal.Z, tol)
	assert.InDelta(t, 1, fc.Normal.Length(), tol)

	assert.Equal(t, 3, m.NumVertices(f))
	assert.True(t, m.FaceIsValid(f))

	faces, err := m.EdgeFaces(es[0]).Collect()
	require.NoError(t, err)
	require.Len(t, faces, 2)
	assert.Equal(t, f, faces[0])
	assert.False(t, m.FaceValid(faces[1]))
}

func TestComputeAttrsIsIdempotent(t *testing.T) {
	m, _, _, f := wiredTriangle(t)
	require.NoError(t, m.ComputeAttrs(f))
	first, _ := m.Face(f)
	require.NoError(t, m.ComputeAttrs(f))
	second, _ := m.Face(f)
	assert.Equal(t, first, second)
}

func TestNormalFollowsWinding(t *testing.T) {
	m, err := build.FromTriangles([]v3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
	}, [][3]int{{0, 2, 1}}, build.Options{})
	require.NoError(t, err)

	fc, _ := m.Face(m.Faces()[0])
	assert.InDelta(t, -1, fc.Normal.Z, tol)
}

func TestFreshFaceDefaults(t *testing.T) {
	m := halfedge.New()
	f := m.AddFace()
	fc, ok := m.Face(f)
	require.True(t, ok)
	assert.Equal(t, v3.Vec{X: 0, Y: 0, Z: 1}, fc.Normal)
	assert.Equal(t, v3.Vec{}, fc.Center)
	assert.Equal(t, halfedge.NilEdge, fc.Edge)
	assert.False(t, m.FaceIsValid(f))
}

func TestFreshEdgeLinksAreEmpty(t *testing.T) {
	m := halfedge.New()
	e := m.AddEdge()
	ed, ok := m.Edge(e)
	require.True(t, ok)
	assert.True(t, ed.Origin.IsNil())
	assert.True(t, ed.Face.IsNil())
	assert.True(t, ed.Next.IsNil())
	assert.True(t, ed.Pair.IsNil())
	assert.False(t, m.EdgeIsValid(e))
}

func TestIDsAreMonotonicPerMesh(t *testing.T) {
	a := halfedge.New()
	b := halfedge.New()

	var last halfedge.EdgeID
	for i := 0; i < 5; i++ {
		ed, _ := a.Edge(a.AddEdge())
		assert.Greater(t, ed.ID, last)
		last = ed.ID
	}

	// A second mesh starts its own sequence.
	ed, _ := b.Edge(b.AddEdge())
	assert.Equal(t, halfedge.EdgeID(1), ed.ID)

	// Removal does not free an id.
	e := a.AddEdge()
	require.NoError(t, a.RemoveEdge(e))
	ed, _ = a.Edge(a.AddEdge())
	assert.Equal(t, halfedge.EdgeID(7), ed.ID)
}

func TestEqualityIsByID(t *testing.T) {
	m, _, es, f := wiredTriangle(t)

	e0, _ := m.Edge(es[0])
	e1, _ := m.Edge(es[1])
	assert.True(t, e0.Equal(e0))
	assert.False(t, e0.Equal(e1))

	// Changing links does not change identity.
	moved := e0
	moved.Next = halfedge.NilEdge
	assert.True(t, e0.Equal(moved))

	fc, _ := m.Face(f)
	require.NoError(t, m.ComputeAttrs(f))
	recomputed, _ := m.Face(f)
	assert.True(t, fc.Equal(recomputed))

	seen := map[halfedge.EdgeID]bool{e0.Key(): true}
	assert.True(t, seen[moved.Key()])
}

func TestPairIsSelfInverse(t *testing.T) {
	for _, km := range []*kernel.Mesh{kernel.Tetrahedron(), kernel.Octahedron(), kernel.Square()} {
		t.Run(km.Name, func(t *testing.T) {
			m := buildMesh(t, km)
			for _, e := range m.Edges() {
				ed, _ := m.Edge(e)
				if ed.Pair.IsNil() {
					continue
				}
				pd, ok := m.Edge(ed.Pair)
				require.True(t, ok)
				assert.Equal(t, e, pd.Pair)
			}
		})
	}
}

func TestFaceCycleCloses(t *testing.T) {
	m := buildMesh(t, kernel.Octahedron())
	for _, f := range m.Faces() {
		edges, err := m.FaceEdges(f).Collect()
		require.NoError(t, err)
		require.Len(t, edges, m.NumVertices(f))

		// Following next from the last edge returns to the first.
		last, _ := m.Edge(edges[len(edges)-1])
		assert.Equal(t, edges[0], last.Next)

		fc, _ := m.Face(f)
		assert.Equal(t, fc.Edge, edges[0])
	}
}

func TestEdgeVerts(t *testing.T) {
	m := buildMesh(t, kernel.Tetrahedron())
	for _, e := range m.Edges() {
		verts, err := m.EdgeVerts(e).Collect()
		require.NoError(t, err)
		require.Len(t, verts, 2)

		ed, _ := m.Edge(e)
		next, _ := m.Edge(ed.Next)
		assert.Equal(t, []halfedge.VertRef{ed.Origin, next.Origin}, verts)
	}
}

func TestEdgeFaces(t *testing.T) {
	m := buildMesh(t, kernel.Square())
	boundary, interior := 0, 0
	for _, e := range m.Edges() {
		faces, err := m.EdgeFaces(e).Collect()
		require.NoError(t, err)
		require.Len(t, faces, 2)

		ed, _ := m.Edge(e)
		assert.Equal(t, ed.Face, faces[0])
		if m.IsBoundary(e) {
			boundary++
			assert.Equal(t, halfedge.NilFace, faces[1])
			continue
		}
		interior++
		pd, _ := m.Edge(ed.Pair)
		assert.Equal(t, pd.Face, faces[1])
		assert.NotEqual(t, faces[0], faces[1])
	}
	assert.Equal(t, 4, boundary)
	assert.Equal(t, 2, interior)
}

func TestEdgeEdgesOnClosedMesh(t *testing.T) {
	m := buildMesh(t, kernel.Octahedron())
	for _, e := range m.Edges() {
		edges, err := m.EdgeEdges(e).Collect()
		require.NoError(t, err)
		// Every octahedron vertex has valence 4.
		require.Len(t, edges, 8)

		ed, _ := m.Edge(e)
		target, err := m.Target(e)
		require.NoError(t, err)

		assert.Equal(t, e, edges[0])
		assert.Equal(t, ed.Next, edges[4])
		for i, r := range edges {
			rd, _ := m.Edge(r)
			if i < 4 {
				assert.Equal(t, ed.Origin, rd.Origin, "edge %d of origin fan", i)
			} else {
				assert.Equal(t, target, rd.Origin, "edge %d of target fan", i)
			}
		}

		// Consecutive edges of a fan are one clockwise step apart.
		for i := 0; i < 3; i++ {
			rd, _ := m.Edge(edges[i])
			pd, _ := m.Edge(rd.Pair)
			assert.Equal(t, pd.Next, edges[i+1])
		}
	}
}

func TestEdgeEdgesOnBoundary(t *testing.T) {
	m := buildMesh(t, kernel.Square())
	// Edge 0 runs v0->v1 on the boundary of the first triangle.
	e := halfedge.EdgeRef(0)
	edges, err := m.EdgeEdges(e).Collect()
	require.NoError(t, err)

	v0, _ := m.Valence(halfedge.VertRef(0))
	v1, _ := m.Valence(halfedge.VertRef(1))
	assert.Len(t, edges, v0+v1)
	assert.Equal(t, e, edges[0])
}

func TestFaceFaces(t *testing.T) {
	t.Run("closed", func(t *testing.T) {
		m := buildMesh(t, kernel.Tetrahedron())
		for _, f := range m.Faces() {
			faces, err := m.FaceFaces(f).Collect()
			require.NoError(t, err)
			require.Len(t, faces, 3)
			seen := map[halfedge.FaceRef]bool{}
			for _, n := range faces {
				assert.True(t, m.FaceValid(n))
				assert.NotEqual(t, f, n)
				seen[n] = true
			}
			assert.Len(t, seen, 3)
		}
	})
	t.Run("boundary", func(t *testing.T) {
		m := buildMesh(t, kernel.Square())
		faces, err := m.FaceFaces(halfedge.FaceRef(0)).Collect()
		require.NoError(t, err)
		assert.Equal(t, []halfedge.FaceRef{halfedge.NilFace, halfedge.NilFace, halfedge.FaceRef(1)}, faces)
	})
}

func TestVertexFans(t *testing.T) {
	tests := []struct {
		name    string
		mesh    *kernel.Mesh
		valence []int
	}{
		{"tetrahedron", kernel.Tetrahedron(), []int{3, 3, 3, 3}},
		{"octahedron", kernel.Octahedron(), []int{4, 4, 4, 4, 4, 4}},
		{"square", kernel.Square(), []int{2, 1, 2, 1}},
		{"triangle", kernel.SingleTriangle(), []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildMesh(t, tt.mesh)
			for i, want := range tt.valence {
				v := halfedge.VertRef(i)
				n, err := m.Valence(v)
				require.NoError(t, err)
				assert.Equal(t, want, n, "valence of %s", v)

				for e := range m.VertEdges(v).All() {
					ed, _ := m.Edge(e)
					assert.Equal(t, v, ed.Origin)
				}
				for n := range m.VertVerts(v).All() {
					assert.NotEqual(t, v, n)
				}
				faces, err := m.VertFaces(v).Collect()
				require.NoError(t, err)
				assert.Len(t, faces, want)
			}
		})
	}
}

func TestNumVerticesOnTriangles(t *testing.T) {
	m := buildMesh(t, kernel.Octahedron())
	for _, f := range m.Faces() {
		assert.Equal(t, 3, m.NumVertices(f))
	}
}

func TestComputeAllAttrsOnClosedMesh(t *testing.T) {
	m := buildMesh(t, kernel.Octahedron())
	for _, f := range m.Faces() {
		fc, _ := m.Face(f)
		// Outward normals point the same way as the face centroid.
		assert.Greater(t, fc.Normal.Dot(fc.Center), 0.0, "face %s", f)
		assert.InDelta(t, 1, fc.Normal.Length(), 1e-9)
	}
}
