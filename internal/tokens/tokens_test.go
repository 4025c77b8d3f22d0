package tokens_test

import (
	"path/filepath"
	"testing"

	"bennypowers.dev/asimonim/schema"
	"bennypowers.dev/stylenorm/internal/tokens"
	"bennypowers.dev/stylenorm/internal/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceValue(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		version schema.Version
		want    string
	}{
		{"plain value", "#336699", schema.Draft, "#336699"},
		{"whole alias", "{color.base}", schema.Draft, "@color-base"},
		{"embedded alias", "1px solid {color.accent}", schema.Draft, "1px solid @color-accent"},
		{"json pointer", "#/color/base", schema.V2025_10, "@color-base"},
		{"hash in a draft file is a color", "#/not/a/pointer", schema.Draft, "#/not/a/pointer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokens.ReferenceValue(tt.value, tt.version))
		})
	}
}

func TestLoad(t *testing.T) {
	set, err := tokens.Load([]string{
		filepath.Join("testdata", "tokens.json"),
		filepath.Join("testdata", "tokens.yaml"),
	}, tokens.Options{})
	require.NoError(t, err)

	refs := set.References()
	assert.Equal(t, "@color-base", refs["color-accent"])
	assert.Equal(t, "4px", refs["space-sm"])
	assert.Equal(t, "2px", refs["radius-sm"])
	assert.Equal(t, "#000000", refs["color-base"], "later files override earlier ones")

	src, ok := set.Source("space-sm")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("testdata", "tokens.json"), src.File)

	t.Run("aliases resolve through references", func(t *testing.T) {
		got, err := values.SubstituteReferences("@space-border", refs)
		require.NoError(t, err)
		assert.Equal(t, "1px solid #000000", got)
	})
}

func TestLoadErrors(t *testing.T) {
	set, err := tokens.Load([]string{
		filepath.Join("testdata", "missing.json"),
		filepath.Join("testdata", "tokens.toml"),
		filepath.Join("testdata", "tokens.yaml"),
	}, tokens.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
	assert.Contains(t, err.Error(), "unsupported token file type .toml")
	assert.Equal(t, 2, set.Len(), "valid files still load")
}

func TestMerge(t *testing.T) {
	got := tokens.Merge(map[string]any{"a": 1, "b": 2}, map[string]any{"b": 3})
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, got)
}
