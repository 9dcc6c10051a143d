package yamlconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "projectgraph.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
output:
  root: ../build
primary: app
projects:
  - name: app
  - name: core
    evaluation_depends_on: [app]
repositories:
  - https://repo.maven.apache.org/maven2
`), 0o644))

	m, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "../build", m.OutputRoot)
	assert.Equal(t, file, m.RootSource)
	assert.Equal(t, "app", m.Primary)
	require.Len(t, m.Projects, 2)
	assert.Equal(t, []string{"app"}, m.Projects[1].DependsOn)

	require.Len(t, m.Extensions, 1)
	assert.Equal(t, "repositories", m.Extensions[0].Kind)
	assert.Contains(t, string(m.Extensions[0].Body), "repo.maven.apache.org")
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yml"), nil, 0o644))

	m, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, m.Projects)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"not a mapping":      "- a\n- b\n",
		"broken syntax":      "projects: [\n",
		"empty output root":  "output:\n  root: \"\"\n",
		"projects not list":  "projects: app\n",
		"null project entry": "projects:\n  -\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "p.yaml"), []byte(src), 0o644))
			_, err := NewLoader().Load(context.Background(), dir)
			assert.Error(t, err)
		})
	}
}
