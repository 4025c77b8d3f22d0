package style_test

import (
	"encoding/json"
	"testing"

	"bennypowers.dev/stylenorm/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		m := style.MapOf("color", "red", "background", "blue", "align", "center")
		assert.Equal(t, []string{"color", "background", "align"}, m.Keys())
	})

	t.Run("overwrite keeps original position", func(t *testing.T) {
		m := style.MapOf("a", 1, "b", 2)
		m.Set("a", 3)
		assert.Equal(t, []string{"a", "b"}, m.Keys())
		v, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 3, v)
	})

	t.Run("nil map is empty", func(t *testing.T) {
		var m *style.Map
		assert.Equal(t, 0, m.Len())
		assert.Empty(t, m.Keys())
		_, ok := m.Get("x")
		assert.False(t, ok)
	})

	t.Run("Child creates and reuses nested maps", func(t *testing.T) {
		m := style.NewMap()
		child := m.Child("selectors")
		child.Set("&:hover", style.NewMap())
		assert.Same(t, child, m.Child("selectors"))
		assert.Equal(t, 1, m.Child("selectors").Len())
	})

	t.Run("Child replaces scalar values", func(t *testing.T) {
		m := style.MapOf("selectors", "oops")
		child := m.Child("selectors")
		assert.Equal(t, 0, child.Len())
	})

	t.Run("Clone is deep", func(t *testing.T) {
		inner := style.MapOf("color", "red")
		m := style.MapOf("selectors", inner, "list", []any{"a", "b"})
		clone := m.Clone()
		inner.Set("color", "blue")
		v, _ := clone.Get("selectors")
		color, _ := v.(*style.Map).Get("color")
		assert.Equal(t, "red", color)
	})

	t.Run("Replace takes over entries", func(t *testing.T) {
		m := style.MapOf("a", 1)
		m.Replace(style.MapOf("b", 2, "c", 3))
		assert.Equal(t, []string{"b", "c"}, m.Keys())
	})

	t.Run("MapOf rejects odd arguments", func(t *testing.T) {
		assert.Panics(t, func() { style.MapOf("a") })
		assert.Panics(t, func() { style.MapOf(1, "a") })
	})
}

func TestMapJSON(t *testing.T) {
	m := style.MapOf(
		"zIndex", 2,
		"color", "red",
		"@media", style.MapOf("screen", style.MapOf("margin", []any{"0", "auto"})),
	)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zIndex":2,"color":"red","@media":{"screen":{"margin":["0","auto"]}}}`, string(data))
	assert.Equal(t, string(data), m.String())
}

func TestMapPlain(t *testing.T) {
	m := style.MapOf("selectors", style.MapOf("&:hover", style.MapOf("color", "red")))
	assert.Equal(t, map[string]any{
		"selectors": map[string]any{
			"&:hover": map[string]any{"color": "red"},
		},
	}, m.Plain())
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "red", "red"},
		{"int", 12, "12"},
		{"float", 0.5, "0.5"},
		{"whole float", float64(12), "12"},
		{"bool", true, "true"},
		{"json number", json.Number("1.25"), "1.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, style.FormatScalar(tt.value))
		})
	}
}

func TestIsScalar(t *testing.T) {
	assert.True(t, style.IsScalar("x"))
	assert.True(t, style.IsScalar(1))
	assert.True(t, style.IsScalar(1.5))
	assert.True(t, style.IsScalar(false))
	assert.False(t, style.IsScalar([]any{"x"}))
	assert.False(t, style.IsScalar(style.NewMap()))
	assert.False(t, style.IsScalar(nil))
}
