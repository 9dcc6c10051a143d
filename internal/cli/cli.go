package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vk/projectgraph/internal/app"
	"github.com/vk/projectgraph/internal/config"
	"github.com/vk/projectgraph/internal/ctxlog"
	"github.com/vk/projectgraph/internal/graph"
	"github.com/vk/projectgraph/internal/hcl"
	"github.com/vk/projectgraph/internal/yamlconfig"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags mirrors the persistent command-line flags.
type flags struct {
	configPaths []string
	anchor      string
	root        string
	workers     int
	logLevel    string
	logFormat   string
}

// session is what a subcommand works with once flags are resolved.
type session struct {
	cfg    *app.Config
	outW   io.Writer
	errW   io.Writer
	lookup func(string) (string, bool)
}

// NewRootCommand builds the command tree. Results go to outW, logs and
// diagnostics to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	return newRootCommand(outW, errW, os.LookupEnv)
}

func newRootCommand(outW, errW io.Writer, lookup func(string) (string, bool)) *cobra.Command {
	f := &flags{}
	s := &session{outW: outW, errW: errW, lookup: lookup}

	root := &cobra.Command{
		Use:   "projectgraph",
		Short: "Project graph configuration engine for multi-project builds",
		Long: `projectgraph reads project declarations, assigns every project an output
directory below one shared root, checks that evaluation dependencies form no
cycle, and can remove the whole output tree.

Declarations are read from HCL (.hcl) and YAML (.yaml, .yml) files. Without
--config, projectgraph.hcl, projectgraph.yaml and projectgraph.yml in the
anchor directory are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.resolve(f)
			if err != nil {
				return &ExitError{Code: ExitUsage, Message: err.Error()}
			}
			s.cfg = cfg

			logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat, errW)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			logger.Debug("CLI configuration resolved.", "anchor", cfg.Anchor, "config_paths", cfg.ConfigPaths, "root", cfg.OutputRoot)
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&f.configPaths, "config", "c", nil, "Declaration file or directory (repeatable).")
	pf.StringVar(&f.anchor, "anchor", "", "Directory relative paths are resolved against. Defaults to the working directory.")
	pf.StringVar(&f.root, "root", "", "Output root, overriding the declared one.")
	pf.IntVar(&f.workers, "workers", 0, "Concurrent subtree deletions during clean. 0 or 1 is sequential.")
	pf.StringVar(&f.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")

	root.AddCommand(
		newCleanCommand(s),
		newOrderCommand(s),
		newPathsCommand(s),
		newValidateCommand(s),
	)
	return root
}

// resolve merges flags, .env and the environment into a validated config.
// Flags win over the environment, which wins over .env.
func (s *session) resolve(f *flags) (*app.Config, error) {
	cfg := app.Config{
		ConfigPaths: f.configPaths,
		Anchor:      f.anchor,
		OutputRoot:  f.root,
		LogFormat:   f.logFormat,
		LogLevel:    f.logLevel,
		Workers:     f.workers,
	}

	dotenvDir := cfg.Anchor
	if dotenvDir == "" {
		if v, ok := s.lookup(app.EnvAnchor); ok {
			dotenvDir = v
		}
	}
	if dotenvDir == "" {
		dotenvDir = "."
	}
	if err := app.LoadDotEnv(dotenvDir); err != nil {
		return nil, err
	}

	if err := app.ApplyEnv(&cfg, s.lookup); err != nil {
		return nil, err
	}
	return app.NewConfig(cfg)
}

// load initializes the orchestrator from the resolved config.
func (s *session) load(ctx context.Context) (*app.Orchestrator, error) {
	loader := config.Chain{hcl.NewLoader(s.cfg.Anchor), yamlconfig.NewLoader()}
	o, err := app.Load(ctx, s.cfg, loader)
	if err != nil {
		return nil, graphExit(err)
	}
	return o, nil
}

// graphExit turns initialization errors into exit errors, naming the
// offending projects.
func graphExit(err error) error {
	var gerr *graph.Error
	if errors.As(err, &gerr) && len(gerr.IDs) > 0 {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%v (projects: %v)", err, gerr.IDs)}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	cmd := NewRootCommand(outW, errW)
	cmd.SetArgs(args)
	return runCommand(ctx, cmd)
}

// runCommand executes cmd. Every subcommand reports its own failures as an
// ExitError, so anything else comes from cobra rejecting the invocation
// (unknown subcommand, surplus arguments) and is a usage error.
func runCommand(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}
