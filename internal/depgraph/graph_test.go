package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOrder(t *testing.T) {
	t.Run("registers both directions", func(t *testing.T) {
		g := New(nil)
		require.NoError(t, g.SetOrder("camera", "ship"))

		assert.Equal(t, []string{"ship"}, g.Ancestors("camera"))
		assert.Equal(t, []string{"camera"}, g.descendants["ship"])
		assert.Equal(t, 1, g.Edges())
	})

	t.Run("self edge is invalid", func(t *testing.T) {
		g := New(nil)
		err := g.SetOrder("a", "a")
		assert.ErrorIs(t, err, ErrInvalidDependency)
	})

	t.Run("reverse edge is invalid", func(t *testing.T) {
		g := New(nil)
		require.NoError(t, g.SetOrder("a", "b"))
		err := g.SetOrder("b", "a")
		assert.ErrorIs(t, err, ErrInvalidDependency)
	})

	t.Run("duplicate edge is rejected", func(t *testing.T) {
		g := New(nil)
		require.NoError(t, g.SetOrder("a", "b"))
		err := g.SetOrder("a", "b")
		assert.ErrorIs(t, err, ErrDuplicateDependency)
	})

	t.Run("longer cycles are not caught here", func(t *testing.T) {
		// Two-tier detection: only the sort sees 3+ node cycles.
		g := New(nil)
		require.NoError(t, g.SetOrder("a", "b"))
		require.NoError(t, g.SetOrder("b", "c"))
		assert.NoError(t, g.SetOrder("c", "a"))
	})

	t.Run("fires change hook", func(t *testing.T) {
		calls := 0
		g := New(func() { calls++ })
		require.NoError(t, g.SetOrder("a", "b"))
		assert.Equal(t, 1, calls)
	})
}

func TestClearOrder(t *testing.T) {
	t.Run("removes edge and prunes empty entries", func(t *testing.T) {
		g := New(nil)
		require.NoError(t, g.SetOrder("a", "b"))
		require.NoError(t, g.ClearOrder("a", "b"))

		assert.NotContains(t, g.ancestors, "a")
		assert.NotContains(t, g.descendants, "b")
		assert.Equal(t, 0, g.Edges())
	})

	t.Run("missing edge errors", func(t *testing.T) {
		g := New(nil)
		err := g.ClearOrder("a", "b")
		assert.ErrorIs(t, err, ErrMissingDependencyEdge)
	})

	t.Run("keeps unrelated edges", func(t *testing.T) {
		g := New(nil)
		require.NoError(t, g.SetOrder("a", "b"))
		require.NoError(t, g.SetOrder("a", "c"))
		require.NoError(t, g.ClearOrder("a", "b"))
		assert.Equal(t, []string{"c"}, g.Ancestors("a"))
	})
}

func TestRemoveEntity(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.SetOrder("b", "a"))
	require.NoError(t, g.SetOrder("c", "b"))
	require.NoError(t, g.SetOrder("b", "d"))

	g.RemoveEntity("b")

	assert.NotContains(t, g.ancestors, "b")
	assert.NotContains(t, g.descendants, "b")
	assert.NotContains(t, g.ancestors, "c")
	assert.NotContains(t, g.descendants, "a")
	assert.NotContains(t, g.descendants, "d")
	assert.Equal(t, 0, g.Edges())
}

func TestDescendantsOf(t *testing.T) {
	g := New(nil)
	// b and c ride on a; d rides on b.
	require.NoError(t, g.SetOrder("b", "a"))
	require.NoError(t, g.SetOrder("c", "a"))
	require.NoError(t, g.SetOrder("d", "b"))

	t.Run("finds transitive dependents", func(t *testing.T) {
		got := g.DescendantsOf([]string{"a"})
		assert.ElementsMatch(t, []string{"b", "c", "d"}, got)
	})

	t.Run("roots are not repeated", func(t *testing.T) {
		got := g.DescendantsOf([]string{"a", "b"})
		assert.ElementsMatch(t, []string{"c", "d"}, got)
	})

	t.Run("leaf has no descendants", func(t *testing.T) {
		assert.Empty(t, g.DescendantsOf([]string{"d"}))
	})

	t.Run("diamond visits each name once", func(t *testing.T) {
		g := New(nil)
		require.NoError(t, g.SetOrder("mid1", "root"))
		require.NoError(t, g.SetOrder("mid2", "root"))
		require.NoError(t, g.SetOrder("leaf", "mid1"))
		require.NoError(t, g.SetOrder("leaf", "mid2"))
		got := g.DescendantsOf([]string{"root"})
		assert.ElementsMatch(t, []string{"mid1", "mid2", "leaf"}, got)
	})
}
