package lifecycle

import (
	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/internal/version"
	"bennypowers.dev/stylenorm/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName is reported to clients in the initialize result
const ServerName = "stylenorm"

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	switch {
	case params.RootURI != nil:
		req.Server.SetRootPath(documents.URIToPath(*params.RootURI))
	case params.RootPath != nil:
		req.Server.SetRootPath(*params.RootPath)
	}
	if root := req.Server.RootPath(); root != "" {
		log.Info("Workspace root: %s", root)
		if err := req.Server.LoadConfig(); err != nil {
			// a broken config file should not keep the editor from starting
			req.AddWarning(err)
		}
	}

	syncKind := protocol.TextDocumentSyncKindIncremental
	v := version.Get().Version
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: boolPtr(true),
				Change:    &syncKind,
			},
			HoverProvider: true,
			ColorProvider: true,
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &v,
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
