package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vk/projectgraph/internal/pathpolicy"
)

// DefaultOutputRoot places build output one level above the anchor.
const DefaultOutputRoot = "../build"

// DefaultConfigPaths are tried, in order, when no declaration files are given.
// Unlike explicitly named paths, they may be missing.
var DefaultConfigPaths = []string{"projectgraph.hcl", "projectgraph.yaml", "projectgraph.yml"}

// Environment variables read by ApplyEnv.
const (
	EnvOutputRoot = "PROJECTGRAPH_OUTPUT_ROOT"
	EnvAnchor     = "PROJECTGRAPH_ANCHOR"
	EnvLogLevel   = "PROJECTGRAPH_LOG_LEVEL"
	EnvLogFormat  = "PROJECTGRAPH_LOG_FORMAT"
	EnvWorkers    = "PROJECTGRAPH_WORKERS"
)

// Config holds everything needed to initialize an Orchestrator. Empty fields
// mean "not set" until NewConfig fills in defaults.
type Config struct {
	ConfigPaths []string
	// Anchor is the directory relative roots and config paths are resolved against.
	Anchor string
	// OutputRoot overrides the root from the declaration files.
	OutputRoot string

	LogFormat string
	LogLevel  string
	Workers   int
}

// NewConfig validates cfg and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Anchor == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		cfg.Anchor = wd
	}
	anchor, err := filepath.Abs(cfg.Anchor)
	if err != nil {
		return nil, fmt.Errorf("invalid anchor %q: %w", cfg.Anchor, err)
	}
	cfg.Anchor = anchor

	explicit := len(cfg.ConfigPaths) > 0
	if !explicit {
		cfg.ConfigPaths = DefaultConfigPaths
	}
	cfg.ConfigPaths = append([]string(nil), cfg.ConfigPaths...)
	for i, p := range cfg.ConfigPaths {
		if !filepath.IsAbs(p) {
			cfg.ConfigPaths[i] = filepath.Join(cfg.Anchor, p)
		}
		// Only the defaults are optional. A named path that is missing must
		// not silently fall back to the default output root.
		if explicit {
			if _, err := os.Stat(cfg.ConfigPaths[i]); err != nil {
				return nil, fmt.Errorf("config path %q: %w", p, err)
			}
		}
	}

	if cfg.OutputRoot != "" {
		if _, err := pathpolicy.ResolveRoot(cfg.Anchor, cfg.OutputRoot); err != nil {
			return nil, err
		}
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.Workers < 0 {
		return nil, errors.New("workers must not be negative")
	}

	return &cfg, nil
}

// ApplyEnv fills fields that are still unset from the environment.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	set := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	set(&cfg.Anchor, EnvAnchor)
	set(&cfg.OutputRoot, EnvOutputRoot)
	set(&cfg.LogLevel, EnvLogLevel)
	set(&cfg.LogFormat, EnvLogFormat)

	if cfg.Workers == 0 {
		if v, ok := lookup(EnvWorkers); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", EnvWorkers, err)
			}
			cfg.Workers = n
		}
	}
	return nil
}

// LoadDotEnv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
