package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("keeps identity and dependencies", func(t *testing.T) {
		n, err := New("feature", []string{"app", "core"})
		require.NoError(t, err)
		assert.Equal(t, "feature", n.ID())
		assert.Equal(t, []string{"app", "core"}, n.Dependencies())
		assert.False(t, n.Assigned())
		assert.Empty(t, n.OutputPath())
	})

	t.Run("collapses repeated dependencies", func(t *testing.T) {
		n, err := New("feature", []string{"app", "core", "app"})
		require.NoError(t, err)
		assert.Equal(t, []string{"app", "core"}, n.Dependencies())
	})

	t.Run("blank identity is rejected", func(t *testing.T) {
		for _, id := range []string{"", "   ", "\t"} {
			_, err := New(id, nil)
			assert.ErrorIs(t, err, ErrEmptyIdentity)
		}
	})

	t.Run("dependencies are not shared with the caller", func(t *testing.T) {
		deps := []string{"app"}
		n, err := New("feature", deps)
		require.NoError(t, err)
		deps[0] = "mutated"

		got := n.Dependencies()
		got[0] = "mutated too"
		assert.Equal(t, []string{"app"}, n.Dependencies())
	})
}

func TestAssignOutputPath(t *testing.T) {
	n, err := FromDeclaration(Declaration{ID: "app"})
	require.NoError(t, err)

	require.NoError(t, n.AssignOutputPath("/ws/build/app"))
	assert.True(t, n.Assigned())
	assert.Equal(t, "/ws/build/app", n.OutputPath())

	err = n.AssignOutputPath("/ws/build/other")
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.Equal(t, "/ws/build/app", n.OutputPath())
}

func TestAssignOutputPathRejectsEmpty(t *testing.T) {
	n, err := New("app", nil)
	require.NoError(t, err)
	assert.Error(t, n.AssignOutputPath(""))
	assert.False(t, n.Assigned())
}
