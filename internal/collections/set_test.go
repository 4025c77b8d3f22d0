package collections_test

import (
	"testing"

	"bennypowers.dev/stylenorm/internal/collections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := collections.NewSet("gap", "width", "gap")
	assert.Len(t, s, 2)
	assert.True(t, s.Has("gap"))
	assert.False(t, s.Has("height"))

	s.Add("height")
	assert.True(t, s.Has("height"))
}

func TestTrail(t *testing.T) {
	trail := collections.NewTrail[string]()
	assert.Equal(t, 0, trail.Len())

	require.True(t, trail.Push("a"))
	require.True(t, trail.Push("b"))
	require.True(t, trail.Push("c"))
	assert.False(t, trail.Push("b"), "values already on the trail are refused")
	assert.Equal(t, []string{"a", "b", "c"}, trail.Items())

	t.Run("loop", func(t *testing.T) {
		assert.Equal(t, []string{"b", "c", "b"}, trail.Loop("b"))
		assert.Equal(t, []string{"a", "b", "c", "a"}, trail.Loop("a"))
		assert.Nil(t, trail.Loop("z"))
	})

	t.Run("pop frees the value", func(t *testing.T) {
		v, ok := trail.Pop()
		require.True(t, ok)
		assert.Equal(t, "c", v)
		assert.False(t, trail.Has("c"))
		assert.True(t, trail.Push("c"))
	})

	t.Run("items are a copy", func(t *testing.T) {
		items := trail.Items()
		items[0] = "changed"
		assert.Equal(t, "a", trail.Items()[0])
	})

	t.Run("pop on empty", func(t *testing.T) {
		empty := collections.NewTrail[int]()
		_, ok := empty.Pop()
		assert.False(t, ok)
	})
}
