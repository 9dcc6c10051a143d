// Package cleanup removes a build output tree.
//
// Clean is best effort: an entry that cannot be removed is recorded and the
// sweep carries on with everything else. Directories that still hold a failed
// or skipped entry are left in place without being reported themselves, so
// every failure in the result names the entry that actually caused it.
//
// Symbolic links are never followed. A link whose target lies inside the root
// is removed like a file. A link pointing outside is left alone and reported
// as an UnsafeLink warning. A root that is itself a link is removed as a link;
// the directory it points to is not touched.
//
// Callers must not run Clean while a graph is being built against the same
// root.
package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/projectgraph/internal/ctxlog"
	"github.com/vk/projectgraph/internal/pathpolicy"
)

// Options tunes a sweep. The zero value removes sequentially with os.Remove.
type Options struct {
	// Workers bounds how many top-level subtrees are swept concurrently.
	// Values below 2 sweep sequentially.
	Workers int
	// Remove deletes a single file, link or empty directory. Defaults to os.Remove.
	Remove func(path string) error
}

type sweeper struct {
	ctx      context.Context
	root     string
	realRoot string
	remove   func(string) error

	mu  sync.Mutex
	res Result
}

// Clean removes everything below root and then root itself. A missing root
// is not an error. root must be absolute and normalized.
func Clean(ctx context.Context, root string, opts Options) Result {
	logger := ctxlog.FromContext(ctx)

	if err := pathpolicy.ValidateRoot(root); err != nil {
		return Result{Root: root, Failures: []Failure{{Path: root, Err: err}}}
	}

	s := &sweeper{ctx: ctx, root: root, remove: opts.Remove, res: Result{Root: root}}
	if s.remove == nil {
		s.remove = os.Remove
	}

	info, err := os.Lstat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Output root absent, nothing to clean.", "root", root)
			return s.res
		}
		s.fail(root, err)
		return s.res
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		s.removeEntry(root)
	case info.IsDir():
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			s.realRoot = resolved
		}
		if s.sweepChildren(root, opts.Workers) {
			s.removeEntry(root)
		}
	default:
		s.removeEntry(root)
	}

	s.res.sort()
	logger.Debug("Sweep finished.", "root", root, "removed", s.res.Removed, "failures", len(s.res.Failures), "warnings", len(s.res.Warnings))
	return s.res
}

// sweepChildren empties dir, fanning out over its entries when workers > 1.
// It reports whether dir is now empty.
func (s *sweeper) sweepChildren(dir string, workers int) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true
		}
		s.fail(dir, err)
		return false
	}

	if workers < 2 || len(entries) < 2 {
		cleared := true
		for _, e := range entries {
			if !s.sweepEntry(filepath.Join(dir, e.Name()), e.Type()) {
				cleared = false
			}
		}
		return cleared
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		cleared = true
	)
	g.SetLimit(workers)
	for _, e := range entries {
		p, typ := filepath.Join(dir, e.Name()), e.Type()
		g.Go(func() error {
			if !s.sweepEntry(p, typ) {
				mu.Lock()
				cleared = false
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return cleared
}

// sweepEntry removes one entry, recursing into directories. It reports
// whether the entry is gone.
func (s *sweeper) sweepEntry(p string, typ fs.FileMode) bool {
	switch {
	case typ&fs.ModeSymlink != 0:
		if target, escapes := s.linkEscapes(p); escapes {
			s.warn(p, target)
			return false
		}
		return s.removeEntry(p)
	case typ.IsDir():
		if !s.sweepChildren(p, 1) {
			return false
		}
		return s.removeEntry(p)
	default:
		return s.removeEntry(p)
	}
}

func (s *sweeper) removeEntry(p string) bool {
	if err := s.ctx.Err(); err != nil {
		s.fail(p, err)
		return false
	}
	err := s.remove(p)
	switch {
	case err == nil:
		s.mu.Lock()
		s.res.Removed++
		s.mu.Unlock()
		return true
	case errors.Is(err, fs.ErrNotExist):
		// Someone else got there first.
		return true
	default:
		s.fail(p, err)
		return false
	}
}

// linkEscapes resolves the link target lexically against the link's directory.
func (s *sweeper) linkEscapes(p string) (string, bool) {
	target, err := os.Readlink(p)
	if err != nil {
		return "", false
	}
	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(p), resolved)
	}
	resolved = filepath.Clean(resolved)

	if pathpolicy.Within(s.root, resolved) {
		return target, false
	}
	if s.realRoot != "" && pathpolicy.Within(s.realRoot, resolved) {
		return target, false
	}
	return target, true
}

func (s *sweeper) fail(p string, err error) {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	ctxlog.FromContext(s.ctx).Warn("Failed to remove entry.", "path", p, "error", err)

	s.mu.Lock()
	s.res.Failures = append(s.res.Failures, Failure{Path: p, Err: err})
	s.mu.Unlock()
}

func (s *sweeper) warn(p, target string) {
	ctxlog.FromContext(s.ctx).Warn("Skipping symbolic link that points outside the output root.", "path", p, "target", target)

	s.mu.Lock()
	s.res.Warnings = append(s.res.Warnings, Warning{Kind: UnsafeLink, Path: p, Target: target})
	s.mu.Unlock()
}
