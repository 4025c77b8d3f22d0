package workspace

import (
	"path/filepath"
	"slices"

	"bennypowers.dev/stylenorm/internal/config"
	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles
// notification. Watched files are the configuration and token files, which
// every open document may depend on, so all of them are recompiled.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Debug("Watched files changed: %d files", len(params.Changes))

	for _, change := range params.Changes {
		if IsConfigFile(req.Server.RootPath(), documents.URIToPath(change.URI)) {
			log.Info("Configuration changed, reloading")
			if err := req.Server.LoadConfig(); err != nil {
				req.AddWarning(err)
			}
			break
		}
	}

	req.Server.DocumentManager().Invalidate()
	for _, doc := range req.Server.DocumentManager().All() {
		if err := req.Server.PublishDiagnostics(req.GLSP, doc.URI()); err != nil {
			req.AddWarning(err)
		}
	}
	return nil
}

// IsConfigFile reports whether path is one of the configuration files of
// the project at root
func IsConfigFile(root, path string) bool {
	return slices.ContainsFunc(config.Files, func(name string) bool {
		return filepath.Clean(path) == filepath.Join(root, filepath.FromSlash(name))
	})
}
