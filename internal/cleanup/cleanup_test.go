package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// populate creates a small output tree and returns its root and the number
// of entries Clean should remove, root included.
func populate(t *testing.T) (string, int) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "build")
	files := []string{
		"app/intermediates/classes.jar",
		"app/outputs/app-debug.apk",
		"core/tmp/stamp",
		"build.log",
	}
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}
	// dirs: app, app/intermediates, app/outputs, core, core/tmp
	return root, len(files) + 5 + 1
}

func TestClean(t *testing.T) {
	root, want := populate(t)

	res := Clean(context.Background(), root, Options{})
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
	assert.Equal(t, want, res.Removed)
	assert.Empty(t, res.Warnings)
	assert.NoDirExists(t, root)

	t.Run("second sweep is a no-op", func(t *testing.T) {
		again := Clean(context.Background(), root, Options{})
		assert.True(t, again.OK())
		assert.Zero(t, again.Removed)
		assert.Empty(t, again.Failures)
	})
}

func TestCleanParallel(t *testing.T) {
	root, want := populate(t)

	res := Clean(context.Background(), root, Options{Workers: 4})
	assert.True(t, res.OK())
	assert.Equal(t, want, res.Removed)
	assert.NoDirExists(t, root)
}

func TestCleanMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "never-built")
	res := Clean(context.Background(), root, Options{})
	assert.Equal(t, Result{Root: root}, res)
}

func TestCleanRootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	res := Clean(context.Background(), root, Options{})
	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Removed)
	assert.NoFileExists(t, root)
}

func TestCleanRejectsInvalidRoot(t *testing.T) {
	for _, root := range []string{"", "relative/build", string(filepath.Separator)} {
		res := Clean(context.Background(), root, Options{})
		require.Len(t, res.Failures, 1)
		assert.Zero(t, res.Removed)
	}
}

func TestCleanPartialFailure(t *testing.T) {
	root, want := populate(t)
	stuck := filepath.Join(root, "app", "outputs", "app-debug.apk")
	denied := errors.New("held open")

	res := Clean(context.Background(), root, Options{
		Remove: func(p string) error {
			if p == stuck {
				return &fs.PathError{Op: "remove", Path: p, Err: denied}
			}
			return os.Remove(p)
		},
	})

	assert.False(t, res.OK())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, stuck, res.Failures[0].Path)
	assert.ErrorIs(t, res.Err(), denied)
	assert.Equal(t, []string{stuck}, res.FailedPaths())

	// Everything except the stuck file and its two ancestors plus root is gone.
	assert.Equal(t, want-4, res.Removed)
	assert.FileExists(t, stuck)
	assert.NoDirExists(t, filepath.Join(root, "core"))
	assert.NoFileExists(t, filepath.Join(root, "build.log"))
	assert.NoDirExists(t, filepath.Join(root, "app", "intermediates"))
}

func TestCleanPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions do not block removal on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root, _ := populate(t)
	locked := filepath.Join(root, "core", "tmp")
	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	res := Clean(context.Background(), root, Options{})
	require.Len(t, res.Failures, 1)
	assert.Equal(t, filepath.Join(locked, "stamp"), res.Failures[0].Path)
	assert.ErrorIs(t, res.Failures[0].Err, fs.ErrPermission)
	assert.NoDirExists(t, filepath.Join(root, "app"))
}

func TestCleanSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	outside := filepath.Join(t.TempDir(), "precious.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))

	root, _ := populate(t)
	escaping := filepath.Join(root, "app", "escape")
	require.NoError(t, os.Symlink(outside, escaping))
	relativeEscape := filepath.Join(root, "core", "up")
	require.NoError(t, os.Symlink("../../..", relativeEscape))
	internal := filepath.Join(root, "latest")
	require.NoError(t, os.Symlink(filepath.Join("app", "outputs"), internal))

	res := Clean(context.Background(), root, Options{})

	assert.True(t, res.OK(), "unsafe links are warnings, not failures")
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, escaping, res.Warnings[0].Path)
	assert.Equal(t, outside, res.Warnings[0].Target)
	assert.Equal(t, UnsafeLink, res.Warnings[0].Kind)
	assert.Equal(t, relativeEscape, res.Warnings[1].Path)

	assert.FileExists(t, outside)
	_, err := os.Lstat(escaping)
	assert.NoError(t, err, "escaping link is left in place")
	_, err = os.Lstat(internal)
	assert.ErrorIs(t, err, fs.ErrNotExist, "internal link is removed")
	assert.NoDirExists(t, filepath.Join(root, "app", "outputs"))
}

func TestCleanSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	target, _ := populate(t)
	root := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.Symlink(target, root))

	res := Clean(context.Background(), root, Options{})
	require.True(t, res.OK())
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, res.Removed)
	assert.NoFileExists(t, root)
	assert.DirExists(t, filepath.Join(target, "app"))

	_, err := os.Lstat(root)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCleanConcurrentSweepsDoNotFail(t *testing.T) {
	root, want := populate(t)

	var wg sync.WaitGroup
	results := make([]Result, 4)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Clean(context.Background(), root, Options{Workers: 2})
		}()
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		assert.Empty(t, r.Failures)
		total += r.Removed
	}
	assert.Equal(t, want, total)
	assert.NoDirExists(t, root)
}

func TestCleanCancelled(t *testing.T) {
	root, _ := populate(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Clean(ctx, root, Options{})
	assert.False(t, res.OK())
	assert.Zero(t, res.Removed)
	for _, f := range res.Failures {
		assert.ErrorIs(t, f.Err, context.Canceled)
	}
	assert.DirExists(t, root)
}
