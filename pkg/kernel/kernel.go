// Package kernel defines the abstract solid-modeling interface that feeds
// triangle soups into half-edge construction. Implementations (sdfx) turn
// primitive solids and boolean combinations into indexed triangle meshes.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centered at the origin.
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates the solid into a closed, welded triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
