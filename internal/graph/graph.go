package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/projectgraph/internal/dag"
	"github.com/vk/projectgraph/internal/pathpolicy"
	"github.com/vk/projectgraph/internal/project"
)

// Graph is a validated set of projects sharing one output root.
type Graph struct {
	root  string
	nodes map[string]*project.Node
	order []string
	// deps holds the evaluation dependencies; its insertion order is the
	// declaration order.
	deps *dag.Graph
}

// Build validates the declarations against root and returns a ready graph.
// root must already be absolute and normalized; see pathpolicy.ResolveRoot.
func Build(root string, decls []project.Declaration) (*Graph, error) {
	if err := pathpolicy.ValidateRoot(root); err != nil {
		return nil, &Error{Kind: ErrInvalidRoot, Err: err}
	}

	g := &Graph{
		root:  root,
		nodes: make(map[string]*project.Node, len(decls)),
		deps:  dag.New(),
	}

	position := make(map[string]int, len(decls))
	for i, d := range decls {
		n, err := project.FromDeclaration(d)
		if err != nil {
			return nil, &Error{Kind: ErrEmptyIdentity, Msg: fmt.Sprintf("declaration #%d", i+1), Err: err}
		}
		if first, dup := position[n.ID()]; dup {
			return nil, &Error{
				Kind: ErrDuplicateIdentity,
				IDs:  []string{n.ID()},
				Msg:  fmt.Sprintf("%q declared at #%d and #%d", n.ID(), first+1, i+1),
			}
		}
		position[n.ID()] = i
		g.nodes[n.ID()] = n
		g.deps.AddNode(n.ID())
	}

	declared := g.deps.Nodes()
	for _, id := range declared {
		n := g.nodes[id]
		p, err := pathpolicy.ComputeOutputPath(root, id)
		if err != nil {
			kind := ErrInvalidIdentifier
			if errors.Is(err, ErrInvalidRoot) {
				kind = ErrInvalidRoot
			}
			return nil, &Error{Kind: kind, IDs: []string{id}, Err: err}
		}
		if err := n.AssignOutputPath(p); err != nil {
			return nil, &Error{Kind: ErrAlreadyAssigned, IDs: []string{id}, Err: err}
		}
	}

	for _, id := range declared {
		for _, dep := range g.nodes[id].Dependencies() {
			if !g.deps.Has(dep) {
				return nil, &Error{
					Kind: ErrUnknownDependency,
					IDs:  []string{id, dep},
					Msg:  fmt.Sprintf("project %q depends on undeclared project %q", id, dep),
				}
			}
			if err := g.deps.AddEdge(id, dep); err != nil {
				return nil, &Error{Kind: ErrUnknownDependency, IDs: []string{id, dep}, Err: err}
			}
		}
	}

	order, err := g.deps.TopologicalOrder()
	if err != nil {
		var cerr *dag.CycleError
		if errors.As(err, &cerr) {
			return nil, cycleError(cerr.Members)
		}
		return nil, err
	}
	g.order = order

	return g, nil
}

func cycleError(members []string) error {
	if len(members) == 0 {
		return &Error{Kind: ErrCyclicDependency}
	}
	path := append(append([]string{}, members...), members[0])
	return &Error{
		Kind: ErrCyclicDependency,
		IDs:  members,
		Msg:  strings.Join(path, " -> "),
	}
}

// Root returns the shared output root. The root project writes here directly.
func (g *Graph) Root() string { return g.root }

// Len returns the number of projects.
func (g *Graph) Len() int { return g.deps.Len() }

// IDs returns project identities in declaration order.
func (g *Graph) IDs() []string { return g.deps.Nodes() }

// EvaluationOrder returns every identity after all of its dependencies. Each
// call returns a fresh slice.
func (g *Graph) EvaluationOrder() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// OutputPathOf returns the output directory of the given project.
func (g *Graph) OutputPathOf(id string) (string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return n.OutputPath(), nil
}

// DependenciesOf returns the declared evaluation dependencies of a project.
func (g *Graph) DependenciesOf(id string) ([]string, error) {
	deps, err := g.deps.Dependencies(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return deps, nil
}
