// Package project models a single project in a multi-project build: its
// identity, its evaluation dependencies and the output directory assigned to
// it while the project graph is built.
package project

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyIdentity is returned when a node is declared without a name.
	ErrEmptyIdentity = errors.New("empty project identity")
	// ErrAlreadyAssigned is returned on a second output path assignment.
	ErrAlreadyAssigned = errors.New("output path already assigned")
)

// Declaration is the static description of one project, as read from a
// declaration file or handed in by a discovery mechanism.
type Declaration struct {
	ID        string
	DependsOn []string
}

// Node is one project in the graph. Identity and dependencies are fixed at
// construction; the output path is written exactly once.
type Node struct {
	id         string
	deps       []string
	outputPath string
}

// New creates a node. Duplicate dependency entries are collapsed, keeping the
// first occurrence so dependency order stays as declared.
func New(id string, deps []string) (*Node, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyIdentity
	}

	seen := make(map[string]struct{}, len(deps))
	uniq := make([]string, 0, len(deps))
	for _, d := range deps {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
	}

	return &Node{id: id, deps: uniq}, nil
}

// FromDeclaration is shorthand for New(d.ID, d.DependsOn).
func FromDeclaration(d Declaration) (*Node, error) {
	return New(d.ID, d.DependsOn)
}

// ID returns the project identity.
func (n *Node) ID() string { return n.id }

// Dependencies returns a copy of the identities this node must be evaluated after.
func (n *Node) Dependencies() []string {
	out := make([]string, len(n.deps))
	copy(out, n.deps)
	return out
}

// OutputPath returns the assigned output directory, or "" before assignment.
func (n *Node) OutputPath() string { return n.outputPath }

// Assigned reports whether the output path has been set.
func (n *Node) Assigned() bool { return n.outputPath != "" }

// AssignOutputPath sets the output directory. It fails if one is already set
// or if p is empty.
func (n *Node) AssignOutputPath(p string) error {
	if n.outputPath != "" {
		return fmt.Errorf("%w: project %q already writes to %q", ErrAlreadyAssigned, n.id, n.outputPath)
	}
	if p == "" {
		return fmt.Errorf("empty output path for project %q", n.id)
	}
	n.outputPath = p
	return nil
}

func (n *Node) String() string {
	if n.outputPath == "" {
		return n.id
	}
	return n.id + " (" + n.outputPath + ")"
}
