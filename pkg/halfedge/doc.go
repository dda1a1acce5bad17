// Package halfedge implements the topology of a triangle mesh as a
// half-edge structure: vertices, directed half-edges and faces stored in
// per-mesh arenas and linked by index references.
//
// A Mesh owns every entity. Links between entities (next, pair, origin,
// face, outgoing edge, boundary edge) are non-owning references that may be
// absent (Nil) or dangling (the referent was removed). Reads never
// dereference a removed slot; traversals report a dangling link through
// their Err method instead of stopping silently.
package halfedge
