package workspace_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/lsp/methods/workspace"
	"bennypowers.dev/stylenorm/lsp/testutil"
	"bennypowers.dev/stylenorm/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestIsConfigFile(t *testing.T) {
	root := filepath.FromSlash("/work/project")
	assert.True(t, workspace.IsConfigFile(root, filepath.Join(root, ".config", "stylenorm.yaml")))
	assert.True(t, workspace.IsConfigFile(root, filepath.Join(root, ".config", "stylenorm.json")))
	assert.False(t, workspace.IsConfigFile(root, filepath.Join(root, "sub", ".config", "stylenorm.yaml")))
	assert.False(t, workspace.IsConfigFile(root, filepath.Join(root, "tokens.json")))
}

func TestDidChangeWatchedFiles(t *testing.T) {
	setup := func() *testutil.MockServerContext {
		server := testutil.NewMockServerContext()
		server.SetRootPath(filepath.FromSlash("/work/project"))
		server.LoadConfigFunc = func() error { return nil }
		server.Open("file:///work/project/a.style.yaml", "rules:\n  a:\n    color: red\n")
		server.Open("file:///work/project/b.style.yaml", "rules:\n  b:\n    color: blue\n")
		return server
	}

	t.Run("token file change republishes every document", func(t *testing.T) {
		server := setup()
		err := workspace.DidChangeWatchedFiles(types.NewRequestContext(server, nil), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{{URI: "file:///work/project/tokens.json", Type: protocol.FileChangeTypeChanged}},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, server.LoadConfigCalls)
		assert.Equal(t, []string{
			"file:///work/project/a.style.yaml",
			"file:///work/project/b.style.yaml",
		}, server.Published)
	})

	t.Run("config change reloads configuration", func(t *testing.T) {
		server := setup()
		configURI := documents.PathToURI(filepath.Join(server.RootPath(), ".config", "stylenorm.yaml"))
		err := workspace.DidChangeWatchedFiles(types.NewRequestContext(server, nil), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{{URI: configURI, Type: protocol.FileChangeTypeChanged}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, server.LoadConfigCalls)
		assert.Len(t, server.Published, 2)
	})

	t.Run("reload failure is a warning", func(t *testing.T) {
		server := setup()
		server.LoadConfigFunc = func() error { return errors.New("broken") }
		req := types.NewRequestContext(server, nil)
		configURI := documents.PathToURI(filepath.Join(server.RootPath(), ".config", "stylenorm.yml"))
		err := workspace.DidChangeWatchedFiles(req, &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{{URI: configURI, Type: protocol.FileChangeTypeDeleted}},
		})
		require.NoError(t, err)
		assert.Len(t, req.Warnings(), 1)
	})
}

func TestLogMessages(t *testing.T) {
	recorder := &testutil.Recorder{}
	workspace.LogWarning(recorder.Context(), "careful: %d", 1)
	workspace.LogError(recorder.Context(), "broken: %s", "x")
	workspace.LogError(nil, "no client")

	assert.Eventually(t, func() bool { return len(recorder.Notified()) == 2 }, time.Second, 10*time.Millisecond)

	messages := map[protocol.MessageType]string{}
	for _, n := range recorder.Notified() {
		assert.Equal(t, protocol.ServerWindowLogMessage, n.Method)
		params, ok := n.Params.(*protocol.LogMessageParams)
		require.True(t, ok)
		messages[params.Type] = params.Message
	}
	assert.Equal(t, "careful: 1", messages[protocol.MessageTypeWarning])
	assert.Equal(t, "broken: x", messages[protocol.MessageTypeError])
}
