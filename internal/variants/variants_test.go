package variants_test

import (
	"errors"
	"testing"

	"bennypowers.dev/stylenorm/internal/normalize"
	"bennypowers.dev/stylenorm/internal/style"
	"bennypowers.dev/stylenorm/internal/variants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"%primary", "%size_lg"}, variants.Placeholders("%primary:hover > %size_lg &"))
	assert.Empty(t, variants.Placeholders("&:hover"))
}

func TestResolve(t *testing.T) {
	t.Run("rewrites keys and keeps bodies", func(t *testing.T) {
		ref := style.MapOf(
			"%primary &", style.MapOf("color", "blue"),
			"%primary:hover > %icon &", style.MapOf("fill", "white"),
		)
		variantMap := map[string]string{"%primary": ".button_primary__a1", "%icon": ".icon__b2"}

		got, err := variants.Resolve(ref, variantMap)
		require.NoError(t, err)
		assert.Same(t, ref, got)
		assert.Equal(t, []string{".button_primary__a1 &", ".button_primary__a1:hover > .icon__b2 &"}, got.Keys())
	})

	t.Run("missing placeholder leaves the map untouched", func(t *testing.T) {
		ref := style.MapOf(
			"%known &", style.MapOf("color", "blue"),
			"%unknown &", style.MapOf("color", "red"),
		)
		before := ref.String()

		_, err := variants.Resolve(ref, map[string]string{"%known": ".k"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, style.ErrVariantReferenceNotFound))

		var notFound *style.VariantReferenceNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "%unknown", notFound.Token)
		assert.Equal(t, "%unknown &", notFound.Selector)
		assert.Equal(t, before, ref.String())
	})

	t.Run("colliding selectors merge", func(t *testing.T) {
		ref := style.MapOf(
			"%a &", style.MapOf("color", "blue"),
			"%b &", style.MapOf("margin", 0),
		)

		got, err := variants.Resolve(ref, map[string]string{"%a": ".same", "%b": ".same"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{".same &": map[string]any{"color": "blue", "margin": 0}}, got.Plain())
	})

	t.Run("empty map", func(t *testing.T) {
		got, err := variants.Resolve(style.NewMap(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Len())
	})
}

func TestSelectors(t *testing.T) {
	ref := style.MapOf("%b &", style.NewMap(), "%a > %b", style.NewMap())
	assert.Equal(t, []string{"%b", "%a"}, variants.Selectors(ref))
}

func TestBatchProtocol(t *testing.T) {
	ctx := style.NewContext()
	secondary := style.MapOf("selectors", style.MapOf(
		"%primary:hover ~ &", style.MapOf("opacity", 0.5),
	))

	result, err := normalize.Normalize(secondary, ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())

	resolved, err := variants.Resolve(ctx.VariantReference, map[string]string{"%primary": ".primary_1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		".primary_1:hover ~ &": map[string]any{"opacity": 0.5},
	}, resolved.Plain())
}
