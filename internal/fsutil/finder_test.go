package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, nil, 0o644))
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.hcl"))
	touch(t, filepath.Join(dir, "a.HCL"))
	touch(t, filepath.Join(dir, "nested", "c.hcl"))
	touch(t, filepath.Join(dir, "notes.txt"))
	single := filepath.Join(dir, "projects.yaml")
	touch(t, single)

	files, err := FindFiles([]string{dir, filepath.Join(dir, "b.hcl"), filepath.Join(dir, "missing.hcl")}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.HCL"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl"),
	}, files)

	files, err = FindFiles([]string{single, dir}, ".yaml", ".yml")
	require.NoError(t, err)
	assert.Equal(t, []string{single}, files)
}

func TestFindFilesPanicsWithoutExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFiles([]string{"."}) })
}
