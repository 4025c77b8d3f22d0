package lifecycle

import (
	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification
func Initialized(req *types.RequestContext, _ *protocol.InitializedParams) error {
	log.Info("Server initialized")

	// kept for diagnostics published outside a request
	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}
	return nil
}

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	req.Server.SetGLSPContext(nil)
	return nil
}

// SetTrace handles the $/setTrace notification
func SetTrace(_ *types.RequestContext, params *protocol.SetTraceParams) error {
	log.Debug("Trace level set to: %s", params.Value)
	protocol.SetTraceValue(params.Value)
	return nil
}
