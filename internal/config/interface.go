package config

import (
	"context"
)

// Loader is the interface for a format-specific declaration loader.
type Loader interface {
	// Load reads every declaration file it recognizes below the given paths
	// and translates them into a Model. Paths that do not exist are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Chain runs several loaders over the same paths and merges their models in
// loader order.
type Chain []Loader

// Load implements Loader.
func (c Chain) Load(ctx context.Context, paths ...string) (*Model, error) {
	merged := NewModel()
	for _, l := range c {
		m, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		if err := merged.Merge(m); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
