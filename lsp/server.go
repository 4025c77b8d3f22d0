// Package lsp serves style documents over the Language Server Protocol:
// diagnostics from compiling the document, hover previews of the CSS a rule
// compiles to, and color decorations.
package lsp

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"bennypowers.dev/stylenorm/internal/config"
	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/internal/sheet"
	"bennypowers.dev/stylenorm/lsp/methods/lifecycle"
	"bennypowers.dev/stylenorm/lsp/methods/textDocument"
	"bennypowers.dev/stylenorm/lsp/methods/textDocument/diagnostic"
	documentcolor "bennypowers.dev/stylenorm/lsp/methods/textDocument/documentColor"
	"bennypowers.dev/stylenorm/lsp/methods/textDocument/hover"
	"bennypowers.dev/stylenorm/lsp/methods/workspace"
	"bennypowers.dev/stylenorm/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

var _ types.ServerContext = (*Server)(nil)

// ErrNotOpen is returned when compiling a document the client has not opened
var ErrNotOpen = errors.New("document is not open")

// Server is the style document language server
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server

	mu       sync.RWMutex // protects the fields below
	context  *glsp.Context
	rootPath string
	config   config.Config
}

// NewServer creates a server
func NewServer() (*Server, error) {
	s := &Server{
		documents: documents.NewManager(),
		config:    config.DefaultConfig(),
	}

	handler := protocol.Handler{
		Initialize:                     method(s, "initialize", lifecycle.Initialize),
		Initialized:                    notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                       noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                       notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeWatchedFiles: notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:            notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:          notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:           notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentHover:              method(s, "textDocument/hover", hover.Hover),
		TextDocumentColor:              method(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:  method(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
	}
	s.glspServer = server.NewServer(&handler, lifecycle.ServerName, false)

	return s, nil
}

// RunStdio serves over stdin and stdout
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases server resources. It is safe to call more than once.
func (s *Server) Close() error {
	s.SetGLSPContext(nil)
	return nil
}

// Document returns the open document with uri, or nil
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the open documents
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// RootPath returns the workspace root
func (s *Server) RootPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootPath
}

// SetRootPath sets the workspace root
func (s *Server) SetRootPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootPath = path
}

// Config returns the current configuration
func (s *Server) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// LoadConfig reads the configuration under the workspace root. On failure
// the previous configuration stays in effect.
func (s *Server) LoadConfig() error {
	cfg, path, err := config.Load(s.RootPath())
	if err != nil {
		return err
	}
	if path != "" {
		log.Info("Using configuration %s", path)
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	s.documents.Invalidate()
	return nil
}

// Compile compiles an open document with the current configuration
func (s *Server) Compile(uri string) (*sheet.Output, error) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return nil, ErrNotOpen
	}
	root := s.RootPath()
	if root == "" {
		root = filepath.Dir(doc.Path())
	}
	return doc.Compile(context.Background(), s.Config().SheetOptions(root))
}

// GLSPContext returns the client context kept from initialization
func (s *Server) GLSPContext() *glsp.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context
}

// SetGLSPContext keeps the client context
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = ctx
}

// PublishDiagnostics pushes the diagnostics of a document to the client.
// ctx falls back to the context kept from initialization.
func (s *Server) PublishDiagnostics(ctx *glsp.Context, uri string) error {
	if ctx == nil || ctx.Notify == nil {
		ctx = s.GLSPContext()
	}
	if ctx == nil || ctx.Notify == nil {
		log.Debug("Not publishing diagnostics for %s: no client context", uri)
		return nil
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	if diagnostics == nil {
		return nil
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

// RegisterFileWatchers asks the client to report changes to the
// configuration and token files
func (s *Server) RegisterFileWatchers(ctx *glsp.Context) error {
	if ctx == nil || ctx.Call == nil {
		log.Debug("Skipping file watcher registration (no client context)")
		return nil
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{{
			ID:     "stylenorm-file-watcher",
			Method: "workspace/didChangeWatchedFiles",
			RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
				Watchers: WatchPatterns(s.RootPath(), s.Config()),
			},
		}},
	}

	// client/registerCapability is a request; calling it from the handler
	// goroutine would block on a response the handler loop cannot read
	go func() {
		var result any
		ctx.Call("client/registerCapability", params, &result)
		log.Debug("File watcher registration completed")
	}()
	return nil
}

// WatchPatterns returns the watchers for the configuration files and the
// configured token files. Token files named by documents are covered by the
// generic token patterns.
func WatchPatterns(root string, cfg config.Config) []protocol.FileSystemWatcher {
	var patterns []string
	for _, name := range config.Files {
		patterns = append(patterns, "**/"+name)
	}
	for _, p := range cfg.Tokens {
		if !filepath.IsAbs(p) && root != "" {
			p = filepath.Join(root, p)
		}
		patterns = append(patterns, filepath.ToSlash(filepath.Clean(p)))
	}
	patterns = append(patterns, "**/*.tokens.{json,yaml,yml}", "**/tokens.{json,yaml,yml}")

	watchers := make([]protocol.FileSystemWatcher, len(patterns))
	for i, p := range patterns {
		watchers[i] = protocol.FileSystemWatcher{GlobPattern: p}
	}
	return watchers
}
