package document_test

import (
	"errors"
	"path/filepath"
	"testing"

	"bennypowers.dev/stylenorm/internal/document"
	"bennypowers.dev/stylenorm/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, name := range []string{"buttons.style.yaml", "buttons.style.jsonc"} {
		t.Run(name, func(t *testing.T) {
			filename := filepath.Join("testdata", name)
			doc, err := document.Load(filename)
			require.NoError(t, err)

			assert.Equal(t, filename, doc.Path)
			assert.Equal(t, map[string]any{"gap": "8px", "space-sm": "4px", "space-lg": "@gap"}, doc.References)
			assert.Equal(t, []string{filepath.Join("testdata", "tokens.json")}, doc.TokenPaths())

			require.Len(t, doc.Rules, 2)
			assert.Equal(t, "button", doc.Rules[0].Name)
			assert.Equal(t, "primary", doc.Rules[1].Name)
			assert.Equal(t, []string{"padding", "_hover"}, doc.Rules[0].Node.Keys())

			hover, _ := doc.Rules[0].Node.Get("_hover")
			assert.Equal(t, map[string]any{"color": "red!"}, hover.(*style.Map).Plain())

			primary, ok := doc.Rule("primary")
			require.True(t, ok)
			assert.Equal(t, []string{"background", "selectors"}, primary.Node.Keys())

			_, ok = doc.Rule("missing")
			assert.False(t, ok)
		})
	}
}

func TestRuleSpans(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		doc, err := document.Load(filepath.Join("testdata", "buttons.style.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 8, doc.Rules[0].Span.Line)
		assert.Equal(t, 2, doc.Rules[0].Span.Column)
		assert.Equal(t, 12, doc.Rules[1].Span.Line)
	})

	t.Run("jsonc", func(t *testing.T) {
		doc, err := document.Load(filepath.Join("testdata", "buttons.style.jsonc"))
		require.NoError(t, err)
		assert.Equal(t, 5, doc.Rules[0].Span.Line)
		assert.Equal(t, 4, doc.Rules[0].Span.Column, "span points at the opening quote")
		assert.Equal(t, 9, doc.Rules[1].Span.Line)
	})
}

func TestParseScalars(t *testing.T) {
	t.Run("json numbers", func(t *testing.T) {
		doc, err := document.Parse([]byte(`{"rules": {"a": {"zIndex": 10, "opacity": 0.5, "x": true, "y": null}}}`), document.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"zIndex": 10, "opacity": 0.5, "x": true, "y": nil}, doc.Rules[0].Node.Plain())
	})

	t.Run("yaml scalars and anchors", func(t *testing.T) {
		src := "rules:\n  a: &base\n    zIndex: 10\n    opacity: 0.5\n    when: 2024-01-01\n  b: *base\n"
		doc, err := document.Parse([]byte(src), document.FormatYAML)
		require.NoError(t, err)
		want := map[string]any{"zIndex": 10, "opacity": 0.5, "when": "2024-01-01"}
		assert.Equal(t, want, doc.Rules[0].Node.Plain())
		assert.Equal(t, want, doc.Rules[1].Node.Plain())
	})

	t.Run("single token file", func(t *testing.T) {
		doc, err := document.Parse([]byte("tokens: ./t.yaml\n"), document.FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, []string{"./t.yaml"}, doc.Tokens)
	})

	t.Run("empty documents", func(t *testing.T) {
		doc, err := document.Parse(nil, document.FormatYAML)
		require.NoError(t, err)
		assert.Empty(t, doc.Rules)

		doc, err = document.Parse([]byte("  "), document.FormatJSON)
		require.NoError(t, err)
		assert.Empty(t, doc.Rules)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format document.Format
		target error
	}{
		{"unknown top-level key", `{"rulez": {}}`, document.FormatJSON, document.ErrInvalidDocument},
		{"rule is a scalar", "rules:\n  a: red\n", document.FormatYAML, document.ErrInvalidDocument},
		{"references is a list", `{"references": []}`, document.FormatJSON, document.ErrInvalidDocument},
		{"tokens entries", "tokens: [1]\n", document.FormatYAML, document.ErrInvalidDocument},
		{"top level array", `[]`, document.FormatJSON, document.ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := document.Parse([]byte(tt.src), tt.format)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("json syntax error is located", func(t *testing.T) {
		_, err := document.Parse([]byte("{\n  \"rules\": {\n    \"a\": {\"b\" 1}\n  }\n}"), document.FormatJSON)
		require.Error(t, err)
		syntax, ok := document.AsSyntaxError(err)
		require.True(t, ok)
		assert.Equal(t, 2, syntax.Span.Line)
	})

	t.Run("yaml syntax error is located", func(t *testing.T) {
		_, err := document.Parse([]byte("rules:\n  a:\n    b: [\n"), document.FormatYAML)
		require.Error(t, err)
		_, ok := document.AsSyntaxError(err)
		assert.True(t, ok)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := document.Parse([]byte(`{} {}`), document.FormatJSON)
		_, ok := document.AsSyntaxError(err)
		assert.True(t, ok)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := document.Load("styles.toml")
		assert.True(t, errors.Is(err, document.ErrUnsupportedFormat))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := document.Load(filepath.Join("testdata", "nope.style.json"))
		assert.Error(t, err)
	})
}

func TestFormatOf(t *testing.T) {
	for name, want := range map[string]document.Format{
		"a.style.json":  document.FormatJSON,
		"a.style.JSONC": document.FormatJSON,
		"a.style.yml":   document.FormatYAML,
		"a.style.yaml":  document.FormatYAML,
	} {
		got, err := document.FormatOf(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	assert.Equal(t, "yaml", document.FormatYAML.String())
}
