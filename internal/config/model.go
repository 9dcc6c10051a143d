package config

import (
	"fmt"

	"github.com/vk/projectgraph/internal/graph"
	"github.com/vk/projectgraph/internal/project"
)

// Model is the unified, format-agnostic representation of all declaration
// files.
type Model struct {
	// OutputRoot is the root as written, possibly relative to the anchor.
	OutputRoot string
	RootSource string

	// Primary names the project every other project is evaluated after.
	Primary       string
	PrimarySource string

	Projects   []*Project
	Extensions []*Extension
}

// Project is the format-agnostic representation of a `project` declaration.
type Project struct {
	Name      string
	DependsOn []string
	Source    string
}

// Extension is a block this system does not interpret, such as repository or
// plugin classpath declarations. It is kept verbatim for the build logic that
// runs inside projects.
type Extension struct {
	Kind   string
	Labels []string
	Source string
	Body   []byte
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// Merge appends other into m. Output root and primary may each be declared
// only once across all sources.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	if other.OutputRoot != "" {
		if m.OutputRoot != "" {
			return fmt.Errorf("output root declared twice (%s and %s)", m.RootSource, other.RootSource)
		}
		m.OutputRoot, m.RootSource = other.OutputRoot, other.RootSource
	}
	if other.Primary != "" {
		if m.Primary != "" {
			return fmt.Errorf("primary project declared twice (%s and %s)", m.PrimarySource, other.PrimarySource)
		}
		m.Primary, m.PrimarySource = other.Primary, other.PrimarySource
	}
	m.Projects = append(m.Projects, other.Projects...)
	m.Extensions = append(m.Extensions, other.Extensions...)
	return nil
}

// Declarations converts the model into graph input. When a primary project is
// set, every other project gets it as an extra, leading evaluation dependency,
// and the primary itself must be declared.
func (m *Model) Declarations() ([]project.Declaration, error) {
	if m.Primary != "" && !m.declares(m.Primary) {
		return nil, &graph.Error{
			Kind: graph.ErrUnknownDependency,
			IDs:  []string{m.Primary},
			Msg:  fmt.Sprintf("primary project %q (%s) is not declared", m.Primary, m.PrimarySource),
		}
	}

	out := make([]project.Declaration, 0, len(m.Projects))
	for _, p := range m.Projects {
		deps := make([]string, 0, len(p.DependsOn)+1)
		if m.Primary != "" && p.Name != m.Primary {
			deps = append(deps, m.Primary)
		}
		deps = append(deps, p.DependsOn...)
		out = append(out, project.Declaration{ID: p.Name, DependsOn: deps})
	}
	return out, nil
}

func (m *Model) declares(name string) bool {
	for _, p := range m.Projects {
		if p.Name == name {
			return true
		}
	}
	return false
}
