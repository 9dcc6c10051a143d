package cleanup

import (
	"errors"
	"sort"
)

// WarningKind classifies non-fatal conditions met during a sweep.
type WarningKind string

// UnsafeLink marks a symbolic link whose target lies outside the swept root.
// Such links are neither followed nor removed.
const UnsafeLink WarningKind = "unsafe_link"

// Warning is a skipped entry.
type Warning struct {
	Kind   WarningKind
	Path   string
	Target string
}

// Failure is an entry that could not be removed.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string { return f.Path + ": " + f.Err.Error() }

func (f Failure) Unwrap() error { return f.Err }

// Result aggregates the outcome of a sweep. A sweep over an absent root
// removes nothing and reports nothing.
type Result struct {
	Root     string
	Removed  int
	Failures []Failure
	Warnings []Warning
}

// OK reports whether no entry failed. Warnings do not count.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// Err joins all failures into one error, or returns nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// FailedPaths lists the paths that could not be removed.
func (r Result) FailedPaths() []string {
	out := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.Path
	}
	return out
}

func (r *Result) sort() {
	sort.Slice(r.Failures, func(i, j int) bool { return r.Failures[i].Path < r.Failures[j].Path })
	sort.Slice(r.Warnings, func(i, j int) bool { return r.Warnings[i].Path < r.Warnings[j].Path })
}
