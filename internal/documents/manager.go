// Package documents tracks the text documents open in the language server.
package documents

import (
	"fmt"
	"sort"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager holds open documents by URI
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{documents: make(map[string]*Document)}
}

// Get returns the document with uri, or nil
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// All returns the open documents ordered by URI
func (m *Manager) All() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].uri < docs[j].uri })
	return docs
}

// Invalidate drops every cached compilation, for when inputs outside the
// documents changed
func (m *Manager) Invalidate() {
	for _, doc := range m.All() {
		doc.Invalidate()
	}
}

// DidOpen starts tracking a document
func (m *Manager) DidOpen(uri, languageID string, version int, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[uri] = NewDocument(uri, languageID, version, content)
}

// DidClose stops tracking a document
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}
	delete(m.documents, uri)
	return nil
}

// DidChange applies content changes in order. A change without a range
// replaces the whole content.
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	doc := m.Get(uri)
	if doc == nil {
		return fmt.Errorf("document not found: %s", uri)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	if version < doc.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", doc.version, version)
	}

	for i, change := range changes {
		if change.Range == nil {
			doc.set(change.Text, version)
			continue
		}
		start, err := doc.offset(change.Range.Start)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
		end, err := doc.offset(change.Range.End)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
		if end < start {
			return fmt.Errorf("change %d: range end precedes start", i)
		}
		doc.set(doc.content[:start]+change.Text+doc.content[end:], version)
	}
	return nil
}
