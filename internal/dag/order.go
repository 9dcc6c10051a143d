package dag

import (
	"container/heap"
	"strings"
)

// CycleError reports a dependency cycle.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	if len(e.Members) == 0 {
		return "cycle detected"
	}
	path := append(append([]string{}, e.Members...), e.Members[0])
	return "cycle detected: " + strings.Join(path, " -> ")
}

// TopologicalOrder returns every vertex after all of its dependencies. Among
// vertices that are ready at the same time, the one inserted first wins. A
// cyclic graph yields a *CycleError.
func (g *Graph) TopologicalOrder() ([]string, error) {
	indeg := make(map[string]int, len(g.nodes))
	ready := &indexHeap{}
	for _, id := range g.order {
		n := g.nodes[id]
		indeg[id] = len(n.deps)
		if indeg[id] == 0 {
			heap.Push(ready, n)
		}
	}

	out := make([]string, 0, len(g.nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(*node)
		out = append(out, n.id)
		for _, m := range n.dependents {
			indeg[m.id]--
			if indeg[m.id] == 0 {
				heap.Push(ready, m)
			}
		}
	}

	if len(out) != len(g.nodes) {
		return nil, &CycleError{Members: g.FindCycle()}
	}
	return out, nil
}

// indexHeap is a min-heap of nodes keyed on insertion index.
type indexHeap []*node

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i].index < h[j].index }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
