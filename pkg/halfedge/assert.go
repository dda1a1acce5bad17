//go:build !hemeshdebug

package halfedge

// assert is compiled out unless the hemeshdebug build tag is set.
func assert(bool, string) {}
