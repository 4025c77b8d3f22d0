// Package textDocument implements document synchronization.
package textDocument

import (
	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen handles the textDocument/didOpen notification
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	log.Debug("Document opened: %s (language: %s, version: %d)", item.URI, item.LanguageID, item.Version)

	req.Server.DocumentManager().DidOpen(item.URI, item.LanguageID, int(item.Version), item.Text)
	publish(req, item.URI)
	return nil
}

// DidChange handles the textDocument/didChange notification
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, params.TextDocument.Version, len(params.ContentChanges))

	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(params.ContentChanges))
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			changes = append(changes, c)
		case protocol.TextDocumentContentChangeEventWhole:
			changes = append(changes, protocol.TextDocumentContentChangeEvent{Text: c.Text})
		}
	}

	if err := req.Server.DocumentManager().DidChange(uri, int(params.TextDocument.Version), changes); err != nil {
		return err
	}
	publish(req, uri)
	return nil
}

// DidClose handles the textDocument/didClose notification. The document's
// diagnostics are cleared.
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debug("Document closed: %s", uri)

	if err := req.Server.DocumentManager().DidClose(uri); err != nil {
		return err
	}
	if req.GLSP != nil && req.GLSP.Notify != nil {
		req.GLSP.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

func publish(req *types.RequestContext, uri string) {
	if err := req.Server.PublishDiagnostics(req.GLSP, uri); err != nil {
		req.AddWarning(err)
	}
}
