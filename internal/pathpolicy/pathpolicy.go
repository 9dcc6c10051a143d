package pathpolicy

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidIdentifier is returned for identities that cannot be used as a
	// single directory name below the root.
	ErrInvalidIdentifier = errors.New("invalid project identifier")
	// ErrInvalidRoot is returned for output roots that are not absolute,
	// normalized, non-filesystem-root paths.
	ErrInvalidRoot = errors.New("invalid output root")
)

// ValidateRoot checks that root is absolute, already cleaned and not the
// filesystem root itself.
func ValidateRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}
	if !filepath.IsAbs(root) {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidRoot, root)
	}
	if filepath.Clean(root) != root {
		return fmt.Errorf("%w: %q is not normalized", ErrInvalidRoot, root)
	}
	if filepath.Dir(root) == root {
		return fmt.Errorf("%w: refusing to use filesystem root %q", ErrInvalidRoot, root)
	}
	return nil
}

// ResolveRoot turns a configured root into an absolute, normalized path.
// Relative roots are interpreted against anchor; an empty anchor means the
// process working directory.
func ResolveRoot(anchor, root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}
	p := root
	if !filepath.IsAbs(p) {
		p = filepath.Join(anchor, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	abs = filepath.Clean(abs)
	if err := ValidateRoot(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// ValidateIdentifier reports whether id can name a directory directly below
// an output root.
func ValidateIdentifier(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	case id == ".":
		return fmt.Errorf("%w: %q refers to the root itself", ErrInvalidIdentifier, id)
	case strings.Contains(id, ".."):
		return fmt.Errorf("%w: %q contains a parent reference", ErrInvalidIdentifier, id)
	case strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidIdentifier, id)
	case strings.ContainsRune(id, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidIdentifier, id)
	case filepath.VolumeName(id) != "":
		return fmt.Errorf("%w: %q carries a volume name", ErrInvalidIdentifier, id)
	}
	return nil
}

// ComputeOutputPath returns root/id. root must satisfy ValidateRoot and id
// must satisfy ValidateIdentifier.
func ComputeOutputPath(root, id string) (string, error) {
	if err := ValidateRoot(root); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(id); err != nil {
		return "", err
	}

	p := filepath.Join(root, id)
	if !Within(root, p) || p == root {
		// Unreachable with the checks above, kept as the last word on containment.
		return "", fmt.Errorf("%w: %q escapes %q", ErrInvalidIdentifier, id, root)
	}
	return p, nil
}

// Within reports whether p is root or lies below it, judged lexically.
func Within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
