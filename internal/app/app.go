package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/projectgraph/internal/cleanup"
	"github.com/vk/projectgraph/internal/config"
	"github.com/vk/projectgraph/internal/ctxlog"
	"github.com/vk/projectgraph/internal/graph"
	"github.com/vk/projectgraph/internal/pathpolicy"
	"github.com/vk/projectgraph/internal/project"
)

// RootConfig is the configured output root before resolution.
type RootConfig struct {
	// Anchor is the directory a relative Path is resolved against.
	Anchor string
	Path   string
}

// Resolve returns the absolute, normalized output root.
func (r RootConfig) Resolve() (string, error) {
	return pathpolicy.ResolveRoot(r.Anchor, r.Path)
}

// Orchestrator owns one project graph and the clean operation over its root.
type Orchestrator struct {
	graph      *graph.Graph
	extensions []*config.Extension
	cleanOpts  cleanup.Options
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds parallel subtree deletion during Clean.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) { o.cleanOpts.Workers = n }
}

// WithCleanupOptions replaces the cleanup options wholesale.
func WithCleanupOptions(opts cleanup.Options) Option {
	return func(o *Orchestrator) { o.cleanOpts = opts }
}

// WithExtensions attaches pass-through declarations for downstream build logic.
func WithExtensions(ext []*config.Extension) Option {
	return func(o *Orchestrator) { o.extensions = ext }
}

// CleanResult is the outcome of one clean sweep.
type CleanResult struct {
	SweepID string
	cleanup.Result
}

// Initialize resolves the root and builds the project graph. On error no
// Orchestrator is returned.
func Initialize(ctx context.Context, root RootConfig, decls []project.Declaration, opts ...Option) (*Orchestrator, error) {
	logger := ctxlog.FromContext(ctx)

	resolved, err := root.Resolve()
	if err != nil {
		return nil, &graph.Error{Kind: graph.ErrInvalidRoot, Err: err}
	}
	logger.Debug("Output root resolved.", "configured", root.Path, "anchor", root.Anchor, "root", resolved)

	g, err := graph.Build(resolved, decls)
	if err != nil {
		return nil, err
	}
	logger.Debug("Project graph ready.", "projects", g.Len(), "order", g.EvaluationOrder())

	o := &Orchestrator{graph: g}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Load reads the declaration files named by cfg and initializes an
// Orchestrator from them. cfg.OutputRoot, when set, wins over the declared
// root; DefaultOutputRoot applies when neither is set.
func Load(ctx context.Context, cfg *Config, loader config.Loader) (*Orchestrator, error) {
	logger := ctxlog.FromContext(ctx)

	model, err := loader.Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load declarations: %w", err)
	}
	logger.Debug("Declarations loaded.", "projects", len(model.Projects), "extensions", len(model.Extensions), "primary", model.Primary)

	rootPath := cfg.OutputRoot
	if rootPath == "" {
		rootPath = model.OutputRoot
	}
	if rootPath == "" {
		rootPath = DefaultOutputRoot
	}

	decls, err := model.Declarations()
	if err != nil {
		return nil, err
	}

	return Initialize(ctx, RootConfig{Anchor: cfg.Anchor, Path: rootPath}, decls,
		WithWorkers(cfg.Workers),
		WithExtensions(model.Extensions),
	)
}

// Root returns the resolved output root.
func (o *Orchestrator) Root() string { return o.graph.Root() }

// Projects returns project identities in declaration order.
func (o *Orchestrator) Projects() []string { return o.graph.IDs() }

// EvaluationOrder returns the order in which projects must be evaluated.
func (o *Orchestrator) EvaluationOrder() []string { return o.graph.EvaluationOrder() }

// OutputPathOf returns a project's output directory.
func (o *Orchestrator) OutputPathOf(id string) (string, error) { return o.graph.OutputPathOf(id) }

// DependenciesOf returns a project's declared evaluation dependencies.
func (o *Orchestrator) DependenciesOf(id string) ([]string, error) { return o.graph.DependenciesOf(id) }

// Extensions returns the pass-through declarations, uninterpreted.
func (o *Orchestrator) Extensions() []*config.Extension { return o.extensions }

// Clean removes the whole output root. Per-path failures are returned as
// data; deciding whether they are fatal is up to the caller.
func (o *Orchestrator) Clean(ctx context.Context) CleanResult {
	id := uuid.NewString()
	ctx = ctxlog.With(ctx, "sweep_id", id)
	logger := ctxlog.FromContext(ctx)

	logger.Info("Cleaning output root.", "root", o.graph.Root())
	res := cleanup.Clean(ctx, o.graph.Root(), o.cleanOpts)

	if res.OK() {
		logger.Info("Clean finished.", "removed", res.Removed, "warnings", len(res.Warnings))
	} else {
		logger.Warn("Clean finished with failures.", "removed", res.Removed, "failures", len(res.Failures), "warnings", len(res.Warnings))
	}
	return CleanResult{SweepID: id, Result: res}
}
