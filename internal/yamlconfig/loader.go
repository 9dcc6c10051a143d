// Package yamlconfig loads project declarations written in YAML:
//
//	output:
//	  root: ../build
//	primary: app
//	projects:
//	  - name: app
//	  - name: core
//	    evaluation_depends_on: [app]
//	repositories:
//	  - https://repo.maven.apache.org/maven2
//
// Unknown top-level keys are kept verbatim as config.Extension values.
package yamlconfig

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/projectgraph/internal/config"
	"github.com/vk/projectgraph/internal/ctxlog"
	"github.com/vk/projectgraph/internal/fsutil"
)

type fileRoot struct {
	Output *struct {
		Root string `yaml:"root"`
	} `yaml:"output"`
	Primary  string         `yaml:"primary"`
	Projects []*projectItem `yaml:"projects"`
}

type projectItem struct {
	Name      string   `yaml:"name"`
	DependsOn []string `yaml:"evaluation_depends_on"`
}

var known = map[string]bool{
	"output":   true,
	"primary":  true,
	"projects": true,
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a YAML declaration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .yaml and .yml file below paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := config.NewModel()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		m, err := parse(file, data)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(m); err != nil {
			return nil, err
		}
	}
	return model, nil
}

func parse(name string, data []byte) (*config.Model, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", name, err)
	}
	m := config.NewModel()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Empty document.
		return m, nil
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: top level must be a mapping", name)
	}

	var root fileRoot
	if err := top.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", name, err)
	}

	if root.Output != nil {
		if root.Output.Root == "" {
			return nil, fmt.Errorf("%s: output.root must not be empty", name)
		}
		m.OutputRoot = root.Output.Root
		m.RootSource = name
	}
	if root.Primary != "" {
		m.Primary = root.Primary
		m.PrimarySource = name
	}
	for i, p := range root.Projects {
		if p == nil {
			return nil, fmt.Errorf("%s: projects[%d] is empty", name, i)
		}
		m.Projects = append(m.Projects, &config.Project{Name: p.Name, DependsOn: p.DependsOn, Source: name})
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		if known[key.Value] {
			continue
		}
		body, err := yaml.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to capture %q: %w", name, key.Value, err)
		}
		m.Extensions = append(m.Extensions, &config.Extension{Kind: key.Value, Source: name, Body: body})
	}
	return m, nil
}
