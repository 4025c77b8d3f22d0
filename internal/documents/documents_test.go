package documents_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/internal/sheet"
	"bennypowers.dev/stylenorm/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func pos(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func rng(sl, sc, el, ec uint32) *protocol.Range {
	return &protocol.Range{Start: pos(sl, sc), End: pos(el, ec)}
}

func TestPositions(t *testing.T) {
	doc := documents.NewDocument("file:///a.style.yaml", "yaml", 1, "rules:\n  ä😀x: 1\n")

	t.Run("offset to position counts utf-16 units", func(t *testing.T) {
		// "  ä" is 4 bytes, "😀" 4 more
		assert.Equal(t, pos(1, 3), doc.Position(7+4))
		assert.Equal(t, pos(1, 5), doc.Position(7+8))
		assert.Equal(t, pos(0, 0), doc.Position(-1))
	})

	t.Run("position to offset", func(t *testing.T) {
		off, err := doc.Offset(pos(1, 5))
		require.NoError(t, err)
		assert.Equal(t, 15, off)

		off, err = doc.Offset(pos(1, 4))
		require.NoError(t, err)
		assert.Equal(t, 11, off, "inside a surrogate pair clamps to the character start")

		off, err = doc.Offset(pos(0, 99))
		require.NoError(t, err)
		assert.Equal(t, 6, off, "past the line end clamps to the line end")

		_, err = doc.Offset(pos(9, 0))
		assert.Error(t, err)
	})

	t.Run("key end", func(t *testing.T) {
		assert.Equal(t, 5, doc.KeyEnd(0))
		quoted := documents.NewDocument("file:///a.style.json", "json", 1, `{"a\"b": 1}`)
		assert.Equal(t, 7, quoted.KeyEnd(1))
	})
}

func TestManager(t *testing.T) {
	m := documents.NewManager()
	uri := "file:///w/a.style.yaml"
	m.DidOpen(uri, "yaml", 1, "rules:\n  a:\n    color: red\n")

	t.Run("incremental change", func(t *testing.T) {
		err := m.DidChange(uri, 2, []protocol.TextDocumentContentChangeEvent{
			{Range: rng(2, 11, 2, 14), Text: "blue"},
		})
		require.NoError(t, err)
		assert.Equal(t, "rules:\n  a:\n    color: blue\n", m.Get(uri).Content())
		assert.Equal(t, 2, m.Get(uri).Version())
	})

	t.Run("insert at end of file", func(t *testing.T) {
		err := m.DidChange(uri, 3, []protocol.TextDocumentContentChangeEvent{
			{Range: rng(3, 0, 3, 0), Text: "  b: {}\n"},
		})
		require.NoError(t, err)
		assert.Equal(t, "rules:\n  a:\n    color: blue\n  b: {}\n", m.Get(uri).Content())
	})

	t.Run("full replacement", func(t *testing.T) {
		err := m.DidChange(uri, 4, []protocol.TextDocumentContentChangeEvent{{Text: "rules: {}\n"}})
		require.NoError(t, err)
		assert.Equal(t, "rules: {}\n", m.Get(uri).Content())
	})

	t.Run("stale and unknown", func(t *testing.T) {
		assert.Error(t, m.DidChange(uri, 1, nil))
		assert.Error(t, m.DidChange("file:///nope", 1, nil))
		assert.Error(t, m.DidChange(uri, 5, []protocol.TextDocumentContentChangeEvent{{Range: rng(40, 0, 40, 1)}}))
	})

	t.Run("all and close", func(t *testing.T) {
		m.DidOpen("file:///w/0.style.yaml", "yaml", 1, "")
		all := m.All()
		require.Len(t, all, 2)
		assert.Equal(t, "file:///w/0.style.yaml", all[0].URI())

		require.NoError(t, m.DidClose(uri))
		assert.Nil(t, m.Get(uri))
		assert.Error(t, m.DidClose(uri))
	})
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tokens.json"), []byte(`{"gap": {"$value": "8px"}}`), 0o644))
	uri := documents.PathToURI(filepath.Join(dir, "a.style.yaml"))

	doc := documents.NewDocument(uri, "yaml", 1, "tokens: [tokens.json]\nrules:\n  a:\n    margin: \"@gap\"\n")
	require.True(t, doc.IsStyleDocument())

	out, err := doc.Compile(context.Background(), sheet.Options{})
	require.NoError(t, err)
	a, ok := out.Rule("a")
	require.True(t, ok)
	assert.Equal(t, "8px", a.Result.Plain()["margin"], "token files resolve against the document path")

	again, err := doc.Compile(context.Background(), sheet.Options{})
	require.NoError(t, err)
	assert.Same(t, out, again, "unchanged content reuses the compilation")

	require.NoError(t, doc.SetContent("rules:\n  a:\n    margin: \"@nope\"\n", 2))
	_, err = doc.Compile(context.Background(), sheet.Options{})
	assert.ErrorIs(t, err, style.ErrPropertyReferenceNotFound)

	notStyle := documents.NewDocument("file:///w/readme.md", "markdown", 1, "")
	assert.False(t, notStyle.IsStyleDocument())
}

func TestURIs(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/home/me/My Styles/a.style.yaml"), documents.URIToPath("file:///home/me/My%20Styles/a.style.yaml"))
	assert.Equal(t, "file:///home/me/My%20Styles/a.style.yaml", documents.PathToURI("/home/me/My Styles/a.style.yaml"))
	assert.Equal(t, filepath.FromSlash("/tmp/x"), documents.URIToPath("file:///tmp/x"))

	path := filepath.Join(t.TempDir(), "round trip.yaml")
	assert.Equal(t, path, documents.URIToPath(documents.PathToURI(path)))
}
