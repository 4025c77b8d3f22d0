// Package testutil provides a ServerContext for handler tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"bennypowers.dev/stylenorm/internal/config"
	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/internal/sheet"
	"bennypowers.dev/stylenorm/lsp/types"
	"github.com/tliron/glsp"
)

var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext is a ServerContext over a real document manager. It
// compiles for real; publishing and watcher registration are recorded.
type MockServerContext struct {
	docs        *documents.Manager
	rootPath    string
	config      config.Config
	glspContext *glsp.Context

	// Optional overrides
	LoadConfigFunc         func() error
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	mu                     sync.Mutex
	Published              []string
	LoadConfigCalls        int
	RegisterWatchersCalled bool
}

// NewMockServerContext creates a mock with the default configuration
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: config.DefaultConfig(),
	}
}

// Open opens a document with the language id taken from its extension
func (m *MockServerContext) Open(uri, content string) *documents.Document {
	languageID := strings.TrimPrefix(filepath.Ext(uri), ".")
	m.docs.DidOpen(uri, languageID, 1, content)
	return m.docs.Get(uri)
}

func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

func (m *MockServerContext) Config() config.Config {
	return m.config
}

// SetConfig replaces the configuration
func (m *MockServerContext) SetConfig(cfg config.Config) {
	m.config = cfg
}

func (m *MockServerContext) LoadConfig() error {
	m.LoadConfigCalls++
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	cfg, _, err := config.Load(m.rootPath)
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

func (m *MockServerContext) Compile(uri string) (*sheet.Output, error) {
	doc := m.docs.Get(uri)
	if doc == nil {
		return nil, fmt.Errorf("document is not open: %s", uri)
	}
	root := m.rootPath
	if root == "" {
		root = filepath.Dir(doc.Path())
	}
	return doc.Compile(context.Background(), m.config.SheetOptions(root))
}

func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

func (m *MockServerContext) PublishDiagnostics(ctx *glsp.Context, uri string) error {
	m.mu.Lock()
	m.Published = append(m.Published, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(ctx, uri)
	}
	return nil
}

func (m *MockServerContext) RegisterFileWatchers(*glsp.Context) error {
	m.RegisterWatchersCalled = true
	return nil
}

// Notification is one message sent through a recording context
type Notification struct {
	Method string
	Params any
}

// Recorder captures what handlers send to the client
type Recorder struct {
	mu            sync.Mutex
	Notifications []Notification
}

// Context returns a glsp context whose Notify records into r
func (r *Recorder) Context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Notifications = append(r.Notifications, Notification{Method: method, Params: params})
		},
	}
}

// Notified returns a copy of the recorded notifications
func (r *Recorder) Notified() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.Notifications...)
}

// Methods returns the recorded notification methods in order
func (r *Recorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	methods := make([]string, len(r.Notifications))
	for i, n := range r.Notifications {
		methods[i] = n.Method
	}
	return methods
}
