package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/stylenorm/internal/config"
	"bennypowers.dev/stylenorm/lsp/testutil"
	"bennypowers.dev/stylenorm/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPublishDiagnostics(t *testing.T) {
	s := newTestServer(t)
	recorder := &testutil.Recorder{}

	s.DocumentManager().DidOpen("file:///w/ok.style.yaml", "yaml", 1, "rules:\n  a:\n    color: red\n")
	s.DocumentManager().DidOpen("file:///w/bad.style.yaml", "yaml", 1, "rules:\n  a:\n    color: \"@nope\"\n")
	s.DocumentManager().DidOpen("file:///w/notes.md", "markdown", 1, "# notes\n")

	require.NoError(t, s.PublishDiagnostics(recorder.Context(), "file:///w/ok.style.yaml"))
	require.NoError(t, s.PublishDiagnostics(recorder.Context(), "file:///w/bad.style.yaml"))
	require.NoError(t, s.PublishDiagnostics(recorder.Context(), "file:///w/notes.md"))

	notes := recorder.Notified()
	require.Len(t, notes, 2, "non-style documents get no diagnostics")

	ok := notes[0].Params.(protocol.PublishDiagnosticsParams)
	assert.Equal(t, "file:///w/ok.style.yaml", ok.URI)
	assert.Empty(t, ok.Diagnostics)

	bad := notes[1].Params.(protocol.PublishDiagnosticsParams)
	require.Len(t, bad.Diagnostics, 1)
	assert.Contains(t, bad.Diagnostics[0].Message, "@nope")
}

func TestPublishDiagnosticsWithoutClient(t *testing.T) {
	s := newTestServer(t)
	s.DocumentManager().DidOpen("file:///w/a.style.yaml", "yaml", 1, "rules: {}\n")
	assert.NoError(t, s.PublishDiagnostics(nil, "file:///w/a.style.yaml"))

	recorder := &testutil.Recorder{}
	s.SetGLSPContext(recorder.Context())
	require.NoError(t, s.PublishDiagnostics(nil, "file:///w/a.style.yaml"))
	assert.Equal(t, []string{protocol.ServerTextDocumentPublishDiagnostics}, recorder.Methods())
}

func TestCompile(t *testing.T) {
	s := newTestServer(t)

	_, err := s.Compile("file:///w/missing.style.yaml")
	assert.ErrorIs(t, err, ErrNotOpen)

	s.DocumentManager().DidOpen("file:///w/a.style.yaml", "yaml", 1, "rules:\n  card:\n    padding: 4px\n")
	out, err := s.Compile("file:///w/a.style.yaml")
	require.NoError(t, err)
	_, found := out.Rule("card")
	assert.True(t, found)
	assert.Contains(t, out.CSS(), "padding: 4px;")
}

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".config"), 0o755))
	configPath := filepath.Join(root, ".config", "stylenorm.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("classPrefix: ds\nlogLevel: error\n"), 0o644))

	s := newTestServer(t)
	s.SetRootPath(root)
	require.NoError(t, s.LoadConfig())
	assert.Equal(t, "ds", s.Config().ClassPrefix)

	require.NoError(t, os.WriteFile(configPath, []byte("logLevel: loud\n"), 0o644))
	assert.Error(t, s.LoadConfig())
	assert.Equal(t, "ds", s.Config().ClassPrefix, "a failed reload keeps the previous configuration")
}

func TestWatchPatterns(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tokens = []string{"design/tokens.json", "/abs/brand.yaml"}

	var patterns []string
	for _, w := range WatchPatterns("/w", cfg) {
		patterns = append(patterns, w.GlobPattern)
	}
	for _, name := range config.Files {
		assert.Contains(t, patterns, "**/"+name)
	}
	assert.Contains(t, patterns, "/w/design/tokens.json")
	assert.Contains(t, patterns, "/abs/brand.yaml")
	assert.Contains(t, patterns, "**/*.tokens.{json,yaml,yml}")
}

func TestMiddleware(t *testing.T) {
	s := newTestServer(t)

	t.Run("panics become errors", func(t *testing.T) {
		handler := method(s, "test/panic", func(*types.RequestContext, *struct{}) (any, error) {
			panic("boom")
		})
		result, err := handler(nil, &struct{}{})
		assert.Nil(t, result)
		assert.EqualError(t, err, "internal error in test/panic")
	})

	t.Run("errors are wrapped with the method name", func(t *testing.T) {
		handler := notify(s, "test/fail", func(*types.RequestContext, *struct{}) error {
			return ErrNotOpen
		})
		err := handler(nil, &struct{}{})
		assert.ErrorIs(t, err, ErrNotOpen)
		assert.Contains(t, err.Error(), "test/fail")
	})

	t.Run("results pass through", func(t *testing.T) {
		handler := method(s, "test/ok", func(req *types.RequestContext, p *int) (int, error) {
			return *p * 2, nil
		})
		n := 21
		result, err := handler(nil, &n)
		require.NoError(t, err)
		assert.Equal(t, 42, result)
	})
}
