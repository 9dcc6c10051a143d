package hcl

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/projectgraph/internal/config"
	"github.com/vk/projectgraph/internal/ctxlog"
	"github.com/vk/projectgraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	anchor  string
	environ func() []string
}

// NewLoader creates a loader whose `workspace` variable is anchor.
func NewLoader(anchor string) *Loader {
	return &Loader{anchor: anchor, environ: os.Environ}
}

// Load parses every .hcl file below paths, in discovery order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := evalContext(l.anchor, l.environ())
	model := config.NewModel()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		m, err := l.translateFile(file, hclFile, evalCtx)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(m); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "projects", len(model.Projects), "extensions", len(model.Extensions))
	return model, nil
}

// translateFile decodes one parsed file into a partial model.
func (l *Loader) translateFile(name string, f *hcl.File, evalCtx *hcl.EvalContext) (*config.Model, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}

	m := config.NewModel()
	if root.Output != nil {
		r, err := evalString(root.Output.Root, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate output root in %s: %w", name, err)
		}
		if r == "" {
			return nil, fmt.Errorf("%s: %s: output root must not be empty", name, root.Output.Root.Range())
		}
		m.OutputRoot = r
		m.RootSource = name
	}
	if root.Primary != nil {
		m.Primary = *root.Primary
		m.PrimarySource = name
	}
	for _, p := range root.Projects {
		m.Projects = append(m.Projects, &config.Project{
			Name:      p.Name,
			DependsOn: p.DependsOn,
			Source:    name,
		})
	}

	m.Extensions = extensions(name, f)
	return m, nil
}

// extensions captures every unknown top-level block and attribute verbatim.
// Only native syntax bodies carry source ranges we can slice.
func extensions(name string, f *hcl.File) []*config.Extension {
	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return nil
	}

	// Attributes come from a map; order them by position in the file.
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		if !known[attr.Name] {
			attrs = append(attrs, attr)
		}
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	var out []*config.Extension
	for _, attr := range attrs {
		out = append(out, &config.Extension{
			Kind:   attr.Name,
			Source: name,
			Body:   sourceOf(f, attr.SrcRange),
		})
	}

	for _, block := range body.Blocks {
		if known[block.Type] {
			continue
		}
		out = append(out, &config.Extension{
			Kind:   block.Type,
			Labels: append([]string(nil), block.Labels...),
			Source: name,
			Body:   sourceOf(f, block.Range()),
		})
	}
	return out
}

func sourceOf(f *hcl.File, r hcl.Range) []byte {
	if r.Start.Byte < 0 || r.End.Byte > len(f.Bytes) || r.Start.Byte > r.End.Byte {
		return nil
	}
	return append([]byte(nil), f.Bytes[r.Start.Byte:r.End.Byte]...)
}
