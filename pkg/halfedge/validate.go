package halfedge

import "fmt"

// ValidationSeverity indicates whether a finding breaks the mesh invariants
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invariant broken
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Element  string             // offending vertex, edge or face, e.g. "e12"
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Element, e.Message)
}

// ValidationResult separates blocking errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no errors were found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate checks the structural invariants of m and returns every finding.
// An empty slice means the mesh is consistent. Validate never mutates m.
func Validate(m *Mesh) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateEdgeLinks(m)...)
	errs = append(errs, validatePairs(m)...)
	errs = append(errs, validateFaceCycles(m)...)
	errs = append(errs, validateVerts(m)...)
	return errs
}

// ValidateAll runs Validate and splits the findings by severity.
func ValidateAll(m *Mesh) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(m) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

func edgeError(e EdgeRef, format string, args ...any) ValidationError {
	return ValidationError{Element: e.String(), Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

// validateEdgeLinks checks that every link of every live edge is present
// (except pair) and live.
func validateEdgeLinks(m *Mesh) []ValidationError {
	var errs []ValidationError
	for _, e := range m.Edges() {
		ed := m.edges[e].e
		if !m.EdgeValid(ed.Next) {
			errs = append(errs, edgeError(e, "next %s is absent or removed", ed.Next))
		}
		if !m.VertValid(ed.Origin) {
			errs = append(errs, edgeError(e, "origin %s is absent or removed", ed.Origin))
		}
		if !m.FaceValid(ed.Face) {
			errs = append(errs, edgeError(e, "face %s is absent or removed", ed.Face))
		}
		if !ed.Pair.IsNil() && !m.EdgeValid(ed.Pair) {
			errs = append(errs, edgeError(e, "pair %s was removed", ed.Pair))
		}
	}
	return errs
}

// validatePairs checks that pairing is a self-inverse matching and that
// paired edges run between the same endpoints in opposite directions.
func validatePairs(m *Mesh) []ValidationError {
	var errs []ValidationError
	for _, e := range m.Edges() {
		ed := m.edges[e].e
		if ed.Pair.IsNil() {
			errs = append(errs, ValidationError{
				Element:  e.String(),
				Message:  "boundary edge has no pair",
				Severity: SeverityWarning,
			})
			continue
		}
		if !m.EdgeValid(ed.Pair) {
			continue // reported by validateEdgeLinks
		}
		if ed.Pair == e {
			errs = append(errs, edgeError(e, "edge is its own pair"))
			continue
		}
		pd := m.edges[ed.Pair].e
		if pd.Pair != e {
			errs = append(errs, edgeError(e, "pair %s has pair %s, want %s", ed.Pair, pd.Pair, e))
		}

		target, err := m.Target(e)
		if err != nil {
			continue
		}
		pairTarget, err := m.Target(ed.Pair)
		if err != nil {
			continue
		}
		if pd.Origin != target || pairTarget != ed.Origin {
			errs = append(errs, edgeError(e,
				"runs %s->%s but pair %s runs %s->%s", ed.Origin, target, ed.Pair, pd.Origin, pairTarget))
		}
	}
	return errs
}

// validateFaceCycles checks that each face's boundary walk closes and that
// every edge on it belongs to the face.
func validateFaceCycles(m *Mesh) []ValidationError {
	var errs []ValidationError
	for _, f := range m.Faces() {
		fc := m.faces[f].f
		if !m.EdgeValid(fc.Edge) {
			errs = append(errs, ValidationError{
				Element:  f.String(),
				Message:  fmt.Sprintf("boundary edge %s is absent or removed", fc.Edge),
				Severity: SeverityError,
			})
			continue
		}

		edges, err := m.FaceEdges(f).Collect()
		if err != nil {
			errs = append(errs, ValidationError{
				Element:  f.String(),
				Message:  fmt.Sprintf("boundary walk failed: %v", err),
				Severity: SeverityError,
			})
			continue
		}
		for _, e := range edges {
			if owner := m.edges[e].e.Face; owner != f {
				errs = append(errs, edgeError(e, "lies on the boundary of %s but belongs to %s", f, owner))
			}
		}
		if len(edges) < 3 {
			errs = append(errs, ValidationError{
				Element:  f.String(),
				Message:  fmt.Sprintf("face has %d sides", len(edges)),
				Severity: SeverityError,
			})
		} else if len(edges) != 3 {
			errs = append(errs, ValidationError{
				Element:  f.String(),
				Message:  fmt.Sprintf("face has %d sides; attributes need triangles", len(edges)),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateVerts checks that each vertex's outgoing edge starts at it.
func validateVerts(m *Mesh) []ValidationError {
	var errs []ValidationError
	for _, v := range m.Verts() {
		vx := m.verts[v].v
		if vx.Edge.IsNil() {
			errs = append(errs, ValidationError{
				Element:  v.String(),
				Message:  "isolated vertex has no outgoing edge",
				Severity: SeverityWarning,
			})
			continue
		}
		if !m.EdgeValid(vx.Edge) {
			errs = append(errs, ValidationError{
				Element:  v.String(),
				Message:  fmt.Sprintf("outgoing edge %s was removed", vx.Edge),
				Severity: SeverityError,
			})
			continue
		}
		if o := m.edges[vx.Edge].e.Origin; o != v {
			errs = append(errs, ValidationError{
				Element:  v.String(),
				Message:  fmt.Sprintf("outgoing edge %s starts at %s", vx.Edge, o),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
