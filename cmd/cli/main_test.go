package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projectgraph/internal/cli"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), args, out, errOut)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), args, out, errOut)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, exitErr.Message, "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	anchor := t.TempDir()
	decl := `
output {
  root = "${workspace}/out"
}
project "app" {}
project "lib" {
  evaluation_depends_on = ["app"]
}
`
	err := os.WriteFile(filepath.Join(anchor, "projectgraph.hcl"), []byte(decl), 0600)
	require.NoError(t, err, "failed to set up test file")
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err = run(context.Background(), []string{"--anchor", anchor, "validate"}, out, errOut)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "ok: 2 projects, output root "+filepath.Join(anchor, "out")+"\n", out.String())
}

func TestRun_SyntaxError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	anchor := t.TempDir()
	invalidHCL := `
		project "app" {
		// Missing closing brace here
	`
	err := os.WriteFile(filepath.Join(anchor, "projectgraph.hcl"), []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	// --- Act ---
	err = run(context.Background(), []string{"--anchor", anchor, "order"}, &bytes.Buffer{}, &bytes.Buffer{})

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitFailure, exitErr.Code)
}
