package build

import (
	"errors"
	"testing"

	"github.com/chazu/hemesh/pkg/halfedge"
	"github.com/chazu/hemesh/pkg/kernel"
	"github.com/chazu/hemesh/pkg/kernel/sdfx"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFromKernelMeshFixtures(t *testing.T) {
	tests := []struct {
		mesh     *kernel.Mesh
		boundary int
	}{
		{kernel.SingleTriangle(), 3},
		{kernel.Square(), 4},
		{kernel.Tetrahedron(), 0},
		{kernel.Octahedron(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.mesh.Name, func(t *testing.T) {
			m, err := FromKernelMesh(tt.mesh, Options{Logger: zaptest.NewLogger(t)})
			require.NoError(t, err)

			assert.Equal(t, tt.mesh.VertexCount(), m.NumVerts())
			assert.Equal(t, tt.mesh.TriangleCount(), m.NumFaces())
			assert.Equal(t, 3*tt.mesh.TriangleCount(), m.NumEdges())

			boundary := 0
			for _, e := range m.Edges() {
				if m.IsBoundary(e) {
					boundary++
				}
			}
			assert.Equal(t, tt.boundary, boundary)

			res := halfedge.ValidateAll(m)
			assert.Empty(t, res.Errors)
			for _, f := range m.Faces() {
				assert.True(t, m.FaceIsValid(f), "face %s", f)
				assert.Equal(t, 3, m.NumVertices(f))
			}
		})
	}
}

func TestFaceCornersFollowTriangleOrder(t *testing.T) {
	km := kernel.Octahedron()
	m, err := FromKernelMesh(km, Options{})
	require.NoError(t, err)

	for i, f := range m.Faces() {
		got, err := m.FaceVerts(f).Collect()
		require.NoError(t, err)
		tri := km.Triangle(i)
		want := []halfedge.VertRef{halfedge.VertRef(tri[0]), halfedge.VertRef(tri[1]), halfedge.VertRef(tri[2])}
		assert.Equal(t, want, got, "face %d", i)
	}
}

func TestBoundaryVertsStartOnBoundary(t *testing.T) {
	m, err := FromKernelMesh(kernel.Square(), Options{})
	require.NoError(t, err)

	for _, v := range m.Verts() {
		vert, ok := m.Vert(v)
		require.True(t, ok)
		assert.True(t, m.IsBoundary(vert.Edge), "vertex %s starts at interior edge %s", v, vert.Edge)
	}

	// The diagonal is shared by both faces.
	assert.Equal(t, halfedge.EdgeRef(3), mustEdge(t, m, 2).Pair)
	assert.Equal(t, halfedge.EdgeRef(2), mustEdge(t, m, 3).Pair)
}

func TestClosedMeshHasNoBoundary(t *testing.T) {
	m, err := FromKernelMesh(kernel.Tetrahedron(), Options{})
	require.NoError(t, err)
	for _, e := range m.Edges() {
		edge := mustEdge(t, m, e)
		require.False(t, edge.Pair.IsNil(), "edge %s", e)
		assert.Equal(t, e, mustEdge(t, m, edge.Pair).Pair)
	}
}

func TestRejectsNonManifold(t *testing.T) {
	positions := []v3.Vec{{X: 0}, {X: 1}, {Y: 1}, {Y: -1}}

	// Same triangle twice.
	_, err := FromTriangles(positions, [][3]int{{0, 1, 2}, {0, 1, 2}}, Options{})
	assert.ErrorIs(t, err, ErrNonManifold)

	// Inconsistent winding: 0->1 is used by both triangles.
	_, err = FromTriangles(positions, [][3]int{{0, 1, 2}, {0, 1, 3}}, Options{})
	assert.ErrorIs(t, err, ErrNonManifold)

	// Consistent winding across the same edge is fine.
	_, err = FromTriangles(positions, [][3]int{{0, 1, 2}, {1, 0, 3}}, Options{})
	assert.NoError(t, err)
}

func TestRejectsBadTriangles(t *testing.T) {
	positions := []v3.Vec{{X: 0}, {X: 1}, {Y: 1}}

	_, err := FromTriangles(positions, [][3]int{{0, 1, 5}}, Options{})
	assert.ErrorIs(t, err, ErrBadTriangle)

	_, err = FromTriangles(positions, [][3]int{{0, -1, 2}}, Options{})
	assert.ErrorIs(t, err, ErrBadTriangle)

	_, err = FromTriangles(positions, [][3]int{{0, 1, 1}}, Options{})
	assert.ErrorIs(t, err, ErrBadTriangle)

	km := &kernel.Mesh{Positions: positions, Indices: []uint32{0, 1}, Name: "short"}
	_, err = FromKernelMesh(km, Options{})
	assert.Error(t, err)

	_, err = FromKernelMesh(nil, Options{})
	assert.Error(t, err)
}

func TestSkipAttrs(t *testing.T) {
	m, err := FromKernelMesh(kernel.Tetrahedron(), Options{SkipAttrs: true})
	require.NoError(t, err)
	f, ok := m.Face(0)
	require.True(t, ok)
	assert.Equal(t, v3.Vec{X: 0, Y: 0, Z: 1}, f.Normal)
	assert.Equal(t, v3.Vec{}, f.Center)

	m, err = FromKernelMesh(kernel.Tetrahedron(), Options{})
	require.NoError(t, err)
	f, _ = m.Face(0)
	assert.InDelta(t, 1.0, f.Normal.Length(), 1e-9)
	assert.NotEqual(t, v3.Vec{X: 0, Y: 0, Z: 1}, f.Normal)
}

func TestFromSdfxSphere(t *testing.T) {
	if testing.Short() {
		t.Skip("marching cubes is slow")
	}
	k := sdfx.New(16)
	km, err := k.ToMesh(k.Sphere(1))
	require.NoError(t, err)

	m, err := FromKernelMesh(km, Options{Logger: zaptest.NewLogger(t)})
	if errors.Is(err, ErrNonManifold) {
		t.Skipf("marching cubes output is not manifold: %v", err)
	}
	require.NoError(t, err)

	res := halfedge.ValidateAll(m)
	assert.Empty(t, res.Errors)
	assert.Equal(t, km.TriangleCount(), m.NumFaces())

	// Normals of a sphere point away from its center. Slivers can have
	// unreliable normals, so only the bulk is checked.
	outward := 0
	for _, f := range m.Faces() {
		face, _ := m.Face(f)
		if face.Normal.Dot(face.Center) > 0 {
			outward++
		}
	}
	assert.Greater(t, outward, m.NumFaces()*9/10)
}

func mustEdge(t *testing.T, m *halfedge.Mesh, e halfedge.EdgeRef) halfedge.Edge {
	t.Helper()
	edge, ok := m.Edge(e)
	require.True(t, ok, "edge %s", e)
	return edge
}
