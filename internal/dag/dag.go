package dag

import (
	"fmt"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a vertex with the given ID. Adding an existing ID is a no-op
// that keeps its first insertion position.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:     id,
		index:  len(g.order),
		depSet: make(map[string]struct{}),
	}
	g.order = append(g.order, id)
}

// Has reports whether a vertex with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns all vertex IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// AddEdge records that id must come after dep. Both vertices must exist.
// Self edges are accepted and surface as a one-member cycle.
func (g *Graph) AddEdge(id, dep string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node not found: %s", id)
	}
	d, ok := g.nodes[dep]
	if !ok {
		return fmt.Errorf("dependency node not found: %s", dep)
	}
	if _, dup := n.depSet[dep]; dup {
		return nil
	}

	n.depSet[dep] = struct{}{}
	n.deps = append(n.deps, d)
	d.dependents = append(d.dependents, n)
	return nil
}

// Dependencies returns the IDs the given vertex must come after.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.deps), nil
}

// FindCycle returns the members of one dependency cycle, in the order they
// depend on each other, or nil when the graph is acyclic. For a -> b -> a it
// returns [a b].
func (g *Graph) FindCycle() []string {
	const (
		unvisited = iota
		inProgress
		done
	)

	state := make(map[string]int, len(g.nodes))
	var stack []*node
	var cycle []string

	var visit func(n *node) bool
	visit = func(n *node) bool {
		state[n.id] = inProgress
		stack = append(stack, n)

		for _, dep := range n.deps {
			switch state[dep.id] {
			case inProgress:
				// dep is on the stack; everything from it to the top is the cycle.
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == dep {
						cycle = ids(stack[i:])
						break
					}
				}
				return true
			case unvisited:
				if visit(dep) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[n.id] = done
		return false
	}

	for _, id := range g.order {
		if state[id] == unvisited && visit(g.nodes[id]) {
			return cycle
		}
	}
	return nil
}

func ids(nodes []*node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}
