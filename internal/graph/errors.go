package graph

import (
	"errors"
	"strings"

	"github.com/vk/projectgraph/internal/pathpolicy"
	"github.com/vk/projectgraph/internal/project"
)

// Construction error kinds. Match them with errors.Is.
var (
	ErrDuplicateIdentity = errors.New("duplicate project identity")
	ErrUnknownDependency = errors.New("unknown evaluation dependency")
	ErrCyclicDependency  = errors.New("cyclic evaluation dependency")
	ErrNotFound          = errors.New("project not found")

	ErrInvalidIdentifier = pathpolicy.ErrInvalidIdentifier
	ErrInvalidRoot       = pathpolicy.ErrInvalidRoot
	ErrEmptyIdentity     = project.ErrEmptyIdentity
	ErrAlreadyAssigned   = project.ErrAlreadyAssigned
)

// Error is returned by Build. IDs names the offending identities; for a cycle
// it holds every member in dependency order.
type Error struct {
	Kind error
	IDs  []string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Msg != "":
		return e.Kind.Error() + ": " + e.Msg
	case e.Err != nil:
		return e.Err.Error()
	case len(e.IDs) > 0:
		return e.Kind.Error() + ": " + strings.Join(e.IDs, ", ")
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
