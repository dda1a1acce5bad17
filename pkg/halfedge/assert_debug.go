//go:build hemeshdebug

package halfedge

func assert(cond bool, msg string) {
	if !cond {
		panic("halfedge: assertion failed: " + msg)
	}
}
