package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"stylenorm"}, args...))
	return out.String(), err
}

func siteRoot() string {
	return filepath.Join("testdata", "site")
}

func TestBuild(t *testing.T) {
	t.Run("discovers documents under the root", func(t *testing.T) {
		css, err := run(t, "--root", siteRoot(), "build")
		require.NoError(t, err)
		assert.Contains(t, css, "/* components/button.style.yaml */\n")
		assert.Contains(t, css, "/* components/card.style.yaml */\n")
		assert.Contains(t, css, ".site-button__")
		assert.Contains(t, css, "padding: 8px;")
		assert.Contains(t, css, "color: var(--brand, teal);")
		assert.Contains(t, css, "color: red !important;")
		assert.Contains(t, css, "--card-gap: 4px;")
		assert.Contains(t, css, "gap: var(--card-gap);")
		assert.Less(t, strings.Index(css, "button.style.yaml"), strings.Index(css, "card.style.yaml"))
	})

	t.Run("writes to a file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "dist", "site.css")
		out, err := run(t, "--root", siteRoot(), "build", "--out", dest, "--validate")
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(data), ".site-card__")
	})

	t.Run("explicit documents", func(t *testing.T) {
		css, err := run(t, "--root", siteRoot(), "build", filepath.Join(siteRoot(), "components", "card.style.yaml"))
		require.NoError(t, err)
		assert.NotContains(t, css, "site-button__")
	})

	t.Run("failures are reported", func(t *testing.T) {
		_, err := run(t, "--root", siteRoot(), "build", filepath.Join("testdata", "broken.style.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "@missing")
	})
}

func TestNormalize(t *testing.T) {
	out, err := run(t, "--root", siteRoot(), "normalize", filepath.Join(siteRoot(), "components", "button.style.yaml"))
	require.NoError(t, err)

	var decoded map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	doc, ok := decoded["components/button.style.yaml"]
	require.True(t, ok)

	button := doc["button"]
	assert.Equal(t, map[string]any{
		"padding": "8px",
		"color":   "var(--brand, teal)",
		"selectors": map[string]any{
			"&:hover": map[string]any{"color": "red !important"},
		},
	}, button["result"])

	icon := doc["icon"]
	variants, ok := icon["variants"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, variants, 1)
	for selector := range variants {
		assert.True(t, strings.HasPrefix(selector, ".site-button__"))
		assert.True(t, strings.HasSuffix(selector, " &"))
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "--root", siteRoot(), "check")
	require.NoError(t, err)
	assert.Equal(t, "2 documents ok\n", out)

	_, err = run(t, "--root", siteRoot(), "check", filepath.Join("testdata", "broken.style.yaml"))
	assert.Error(t, err)
}

func TestTree(t *testing.T) {
	out, err := run(t, "--root", siteRoot(), "tree", filepath.Join(siteRoot(), "components", "button.style.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "components/button.style.yaml")
	assert.Contains(t, out, "button")
	assert.Contains(t, out, "padding: 8px")
	assert.Contains(t, out, "&:hover")
	assert.Contains(t, out, "variants")
}

func TestLogLevelFlag(t *testing.T) {
	_, err := run(t, "--root", siteRoot(), "--log-level", "loud", "check")
	assert.Error(t, err)
}

func TestNoDocuments(t *testing.T) {
	_, err := run(t, "--root", t.TempDir(), "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no style documents")
}

func TestDisplayPath(t *testing.T) {
	root, err := filepath.Abs(siteRoot())
	require.NoError(t, err)
	assert.Equal(t, "components/card.style.yaml", displayPath(root, filepath.Join(siteRoot(), "components", "card.style.yaml")))
	assert.Equal(t, "/elsewhere/x.style.yaml", displayPath(root, "/elsewhere/x.style.yaml"))
}
