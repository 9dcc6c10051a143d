package dag

// Graph is a collection of vertices and their dependencies. It is built once
// and then only read; it does no locking.
type Graph struct {
	// nodes stores all vertices, keyed by their unique ID.
	nodes map[string]*node
	// order lists vertex IDs in insertion order.
	order []string
}

// node is un-exported so callers work with string IDs only.
type node struct {
	id string
	// index is the insertion position, used to break ties.
	index int
	// deps are the vertices this one must come after, in edge insertion order.
	deps []*node
	// dependents are the vertices that must come after this one.
	dependents []*node
	// depSet mirrors deps for constant-time duplicate checks.
	depSet map[string]struct{}
}
