package halfedge

import (
	"errors"
	"fmt"
)

// VertRef is a non-owning reference to a vertex slot in a Mesh.
type VertRef int32

// EdgeRef is a non-owning reference to a half-edge slot in a Mesh.
type EdgeRef int32

// FaceRef is a non-owning reference to a face slot in a Mesh.
type FaceRef int32

// Empty references. A fresh entity starts with all of its links empty.
const (
	NilVert VertRef = -1
	NilEdge EdgeRef = -1
	NilFace FaceRef = -1
)

// IsNil reports whether r is the empty reference.
func (r VertRef) IsNil() bool { return r < 0 }

// IsNil reports whether r is the empty reference.
func (r EdgeRef) IsNil() bool { return r < 0 }

// IsNil reports whether r is the empty reference.
func (r FaceRef) IsNil() bool { return r < 0 }

func (r VertRef) String() string {
	if r.IsNil() {
		return "v<nil>"
	}
	return fmt.Sprintf("v%d", int32(r))
}

func (r EdgeRef) String() string {
	if r.IsNil() {
		return "e<nil>"
	}
	return fmt.Sprintf("e%d", int32(r))
}

func (r FaceRef) String() string {
	if r.IsNil() {
		return "f<nil>"
	}
	return fmt.Sprintf("f%d", int32(r))
}

// VertID, EdgeID and FaceID are per-mesh identifiers. They are assigned
// from monotonic counters starting at 1 and are never reused.
type (
	VertID uint32
	EdgeID uint32
	FaceID uint32
)

var (
	// ErrDangling is returned when a link is absent where one is required,
	// or points at an entity that has been removed from the mesh.
	ErrDangling = errors.New("halfedge: dangling reference")

	// ErrNotTriangle is returned by ComputeAttrs for faces that do not
	// have exactly three vertices.
	ErrNotTriangle = errors.New("halfedge: face is not a triangle")

	// ErrOpenCycle is returned by a traversal that fails to return to its
	// start edge within the number of edges in the mesh.
	ErrOpenCycle = errors.New("halfedge: traversal did not close")
)

func dangling(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDangling)
}
