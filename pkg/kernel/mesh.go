package kernel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an indexed triangle soup. Positions holds one entry per vertex;
// Indices holds three vertex indices per triangle, wound counter-clockwise
// when viewed from outside.
type Mesh struct {
	Positions []v3.Vec
	Indices   []uint32
	Name      string
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]int {
	return [3]int{int(m.Indices[3*i]), int(m.Indices[3*i+1]), int(m.Indices[3*i+2])}
}

// Check verifies that the index buffer is a whole number of triangles and
// every index is in range.
func (m *Mesh) Check() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("kernel: %d indices is not a whole number of triangles", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("kernel: index %d at %d out of range (%d vertices)", idx, i, len(m.Positions))
		}
	}
	return nil
}

func newMesh(name string, positions []v3.Vec, tris ...[3]uint32) *Mesh {
	m := &Mesh{Positions: positions, Name: name, Indices: make([]uint32, 0, 3*len(tris))}
	for _, t := range tris {
		m.Indices = append(m.Indices, t[0], t[1], t[2])
	}
	return m
}

// SingleTriangle returns one open triangle (0,0,0), (1,0,0), (0,1,0).
func SingleTriangle() *Mesh {
	return newMesh("triangle", []v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[3]uint32{0, 1, 2})
}

// Square returns the unit square in the z=0 plane split into two triangles
// along its diagonal. Four of its five undirected edges are on the boundary.
func Square() *Mesh {
	return newMesh("square", []v3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
	},
		[3]uint32{0, 1, 2},
		[3]uint32{0, 2, 3},
	)
}

// Tetrahedron returns a closed regular tetrahedron inscribed in the cube
// [-1,1]^3.
func Tetrahedron() *Mesh {
	return newMesh("tetrahedron", []v3.Vec{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1},
	},
		[3]uint32{0, 1, 2},
		[3]uint32{0, 3, 1},
		[3]uint32{0, 2, 3},
		[3]uint32{1, 3, 2},
	)
}

// Octahedron returns a closed octahedron with vertices on the unit axes.
// Every vertex has valence 4.
func Octahedron() *Mesh {
	return newMesh("octahedron", []v3.Vec{
		{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
	},
		[3]uint32{0, 2, 4}, [3]uint32{2, 1, 4}, [3]uint32{1, 3, 4}, [3]uint32{3, 0, 4},
		[3]uint32{2, 0, 5}, [3]uint32{1, 2, 5}, [3]uint32{3, 1, 5}, [3]uint32{0, 3, 5},
	)
}
