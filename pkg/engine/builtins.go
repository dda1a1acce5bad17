package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/hemesh/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts an integer from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_face) and plain strings ("face").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// oneIndex checks that a builtin got exactly one integer argument.
func oneIndex(name string, args []zygo.Sexp) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly 1 argument, got %d", name, len(args))
	}
	n, err := toInt(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Value construction helpers
// ---------------------------------------------------------------------------

func sexpInt(n int) zygo.Sexp { return &zygo.SexpInt{Val: int64(n)} }

func sexpVec(v v3.Vec) zygo.Sexp {
	return zygo.MakeList([]zygo.Sexp{
		&zygo.SexpFloat{Val: v.X},
		&zygo.SexpFloat{Val: v.Y},
		&zygo.SexpFloat{Val: v.Z},
	})
}

// sexpRefs converts references to a list of integers. Empty references
// print as -1.
func sexpRefs[R halfedge.Ref](refs []R) zygo.Sexp {
	items := make([]zygo.Sexp, len(refs))
	for i, r := range refs {
		items[i] = sexpInt(int(r))
	}
	return zygo.MakeList(items)
}

// collect drains a traversal into a list, turning a corruption signal into
// an evaluation error.
func collect[R halfedge.Ref](name string, it *halfedge.Iter[R]) (zygo.Sexp, error) {
	refs, err := it.Collect()
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
	}
	return sexpRefs(refs), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtinFn = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// traversal adapts a one-argument adjacency query into a builtin.
func traversal[R halfedge.Ref](walk func(int) *halfedge.Iter[R]) builtinFn {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := oneIndex(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return collect(name, walk(n))
	}
}

// registerBuiltins installs the mesh query builtins into a zygomys
// environment. Vertices, edges and faces are addressed by their integer
// reference. Builtin names use underscores; preprocessSource maps the
// kebab-case spelling users type onto them.
func registerBuiltins(env *zygo.Zlisp, m *halfedge.Mesh) {
	counts := map[string]func() int{
		"num_verts": m.NumVerts,
		"num_edges": m.NumEdges,
		"num_faces": m.NumFaces,
	}
	for name, count := range counts {
		count := count
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 0 {
				return zygo.SexpNull, fmt.Errorf("%s takes no arguments", name)
			}
			return sexpInt(count()), nil
		})
	}

	// (face-verts 3) (face-edges 3) (face-faces 3)
	env.AddFunction("face_verts", traversal(func(n int) *halfedge.VertIter { return m.FaceVerts(halfedge.FaceRef(n)) }))
	env.AddFunction("face_edges", traversal(func(n int) *halfedge.EdgeIter { return m.FaceEdges(halfedge.FaceRef(n)) }))
	env.AddFunction("face_faces", traversal(func(n int) *halfedge.FaceIter { return m.FaceFaces(halfedge.FaceRef(n)) }))

	// (edge-verts 0) (edge-edges 0) (edge-faces 0)
	env.AddFunction("edge_verts", traversal(func(n int) *halfedge.VertIter { return m.EdgeVerts(halfedge.EdgeRef(n)) }))
	env.AddFunction("edge_edges", traversal(func(n int) *halfedge.EdgeIter { return m.EdgeEdges(halfedge.EdgeRef(n)) }))
	env.AddFunction("edge_faces", traversal(func(n int) *halfedge.FaceIter { return m.EdgeFaces(halfedge.EdgeRef(n)) }))

	// (vert-verts 1) (vert-edges 1) (vert-faces 1)
	env.AddFunction("vert_verts", traversal(func(n int) *halfedge.VertIter { return m.VertVerts(halfedge.VertRef(n)) }))
	env.AddFunction("vert_edges", traversal(func(n int) *halfedge.EdgeIter { return m.VertEdges(halfedge.VertRef(n)) }))
	env.AddFunction("vert_faces", traversal(func(n int) *halfedge.FaceIter { return m.VertFaces(halfedge.VertRef(n)) }))

	// (valence 1)
	env.AddFunction("valence", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := oneIndex(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		k, err := m.Valence(halfedge.VertRef(n))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return sexpInt(k), nil
	})

	// (num-sides 2)
	env.AddFunction("num_sides", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := oneIndex(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return sexpInt(m.NumVertices(halfedge.FaceRef(n))), nil
	})

	// (face-normal 2) (face-center 2) (vert-pos 0)
	env.AddFunction("face_normal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := oneIndex(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		f, ok := m.Face(halfedge.FaceRef(n))
		if !ok {
			return zygo.SexpNull, fmt.Errorf("%s: no face %d", name, n)
		}
		return sexpVec(f.Normal), nil
	})
	env.AddFunction("face_center", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := oneIndex(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		f, ok := m.Face(halfedge.FaceRef(n))
		if !ok {
			return zygo.SexpNull, fmt.Errorf("%s: no face %d", name, n)
		}
		return sexpVec(f.Center), nil
	})
	env.AddFunction("vert_pos", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := oneIndex(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, ok := m.Vert(halfedge.VertRef(n))
		if !ok {
			return zygo.SexpNull, fmt.Errorf("%s: no vertex %d", name, n)
		}
		return sexpVec(v.Pos), nil
	})

	// (is-valid :face 2) (is-valid :edge 7) (is-valid :vert 0)
	env.AddFunction("is_valid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires a kind keyword and an index", name)
		}
		kind, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: kind: %w", name, err)
		}
		n, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: index: %w", name, err)
		}
		var ok bool
		switch kind {
		case "face":
			ok = m.FaceIsValid(halfedge.FaceRef(n))
		case "edge":
			ok = m.EdgeIsValid(halfedge.EdgeRef(n))
		case "vert":
			ok = m.VertIsValid(halfedge.VertRef(n))
		default:
			return zygo.SexpNull, fmt.Errorf("%s: invalid kind %q, expected face, edge or vert", name, kind)
		}
		return &zygo.SexpBool{Val: ok}, nil
	})

	// (validate) returns the error findings as a list of strings.
	env.AddFunction("validate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res := halfedge.ValidateAll(m)
		items := make([]zygo.Sexp, len(res.Errors))
		for i, e := range res.Errors {
			items[i] = &zygo.SexpStr{S: e.Error()}
		}
		return zygo.MakeList(items), nil
	})
}
