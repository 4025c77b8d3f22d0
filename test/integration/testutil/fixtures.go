// Package testutil loads fixture workspaces into a real language server.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/lsp"
	"bennypowers.dev/stylenorm/lsp/methods/lifecycle"
	"bennypowers.dev/stylenorm/lsp/methods/textDocument"
	"bennypowers.dev/stylenorm/lsp/types"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// FixtureRoot returns the path to the test fixtures directory
func FixtureRoot() string {
	return filepath.Join("..", "fixtures")
}

// Workspace returns the absolute path of a fixture workspace
func Workspace(t *testing.T, name string) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join(FixtureRoot(), name))
	require.NoError(t, err)
	return root
}

// NewTestServer creates a server initialized with root as its workspace
func NewTestServer(t *testing.T, root string) *lsp.Server {
	t.Helper()
	server, err := lsp.NewServer()
	require.NoError(t, err, "Failed to create test server")
	t.Cleanup(func() { _ = server.Close() })

	rootURI := documents.PathToURI(root)
	_, err = lifecycle.Initialize(types.NewRequestContext(server, nil), &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err, "Failed to initialize test server")
	return server
}

// OpenFixture opens a file of the workspace at root in the server and
// returns its URI
func OpenFixture(t *testing.T, server *lsp.Server, ctx *glsp.Context, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(path) //nolint:gosec // G304: Test fixture path - test code only
	require.NoError(t, err, "Failed to load fixture: %s", rel)

	uri := documents.PathToURI(path)
	err = textDocument.DidOpen(types.NewRequestContext(server, ctx), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "yaml",
			Version:    1,
			Text:       string(data),
		},
	})
	require.NoError(t, err, "Failed to open fixture: %s", rel)
	return uri
}
