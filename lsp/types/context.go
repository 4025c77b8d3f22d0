// Package types holds the contracts shared by the server and its method
// handlers.
package types

import (
	"bennypowers.dev/stylenorm/internal/config"
	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/internal/sheet"
	"github.com/tliron/glsp"
)

// ServerContext is everything a handler needs from the server
type ServerContext interface {
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager

	RootPath() string
	SetRootPath(path string)

	Config() config.Config
	// LoadConfig reads the configuration under the root path
	LoadConfig() error

	// Compile compiles an open style document with the current
	// configuration
	Compile(uri string) (*sheet.Output, error)

	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	PublishDiagnostics(ctx *glsp.Context, uri string) error
	RegisterFileWatchers(ctx *glsp.Context) error
}

// RequestContext carries one request's server and protocol contexts, and the
// non-fatal warnings a handler collects
type RequestContext struct {
	Server ServerContext
	GLSP   *glsp.Context

	warnings []error
}

// NewRequestContext creates a request context
func NewRequestContext(server ServerContext, ctx *glsp.Context) *RequestContext {
	return &RequestContext{Server: server, GLSP: ctx}
}

// AddWarning records a problem that did not fail the request
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns the recorded warnings
func (r *RequestContext) Warnings() []error {
	return r.warnings
}
