//go:build hemeshdebug

package halfedge_test

import (
	"testing"

	"github.com/chazu/hemesh/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
)

func TestComputeAttrsAssertsTriangles(t *testing.T) {
	m := halfedge.New()
	f := m.AddFace()
	var es [4]halfedge.EdgeRef
	for i := range es {
		es[i] = m.AddEdgeFrom(m.AddVert(v3.Vec{X: float64(i)}))
	}
	for i := range es {
		_ = m.SetNext(es[i], es[(i+1)%4])
		_ = m.SetFace(es[i], f)
	}
	_ = m.SetFaceEdge(f, es[0])

	assert.PanicsWithValue(t, "halfedge: assertion failed: should have 3 adjacent vertices", func() {
		_ = m.ComputeAttrs(f)
	})
}
