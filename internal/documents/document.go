package documents

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"bennypowers.dev/stylenorm/internal/document"
	"bennypowers.dev/stylenorm/internal/sheet"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document is an open text document
type Document struct {
	uri        string
	languageID string

	mu       sync.Mutex
	content  string
	version  int
	lines    []int
	compiled *compilation
}

type compilation struct {
	version int
	out     *sheet.Output
	err     error
}

// NewDocument creates a document
func NewDocument(uri, languageID string, version int, content string) *Document {
	d := &Document{uri: uri, languageID: languageID}
	d.set(content, version)
	return d
}

// URI returns the document's URI
func (d *Document) URI() string {
	return d.uri
}

// LanguageID returns the document's language identifier
func (d *Document) LanguageID() string {
	return d.languageID
}

// Path returns the file system path of the document
func (d *Document) Path() string {
	return URIToPath(d.uri)
}

// Version returns the document's version
func (d *Document) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

// SetContent replaces the content. Updates older than the current version
// are rejected.
func (d *Document) SetContent(content string, version int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.set(content, version)
	return nil
}

func (d *Document) set(content string, version int) {
	d.content = content
	d.version = version
	d.lines = d.lines[:0]
	d.lines = append(d.lines, 0)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			d.lines = append(d.lines, i+1)
		}
	}
	d.compiled = nil
}

// IsStyleDocument reports whether the document is a style document by its
// file extension
func (d *Document) IsStyleDocument() bool {
	_, err := document.FormatOf(d.Path())
	return err == nil
}

// Compile compiles the current content. The result is kept until the
// content changes or Invalidate is called.
func (d *Document) Compile(ctx context.Context, opts sheet.Options) (*sheet.Output, error) {
	d.mu.Lock()
	content, version := d.content, d.version
	if c := d.compiled; c != nil && c.version == version {
		d.mu.Unlock()
		return c.out, c.err
	}
	d.mu.Unlock()

	out, err := d.compile(ctx, content, opts)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.version == version {
		d.compiled = &compilation{version: version, out: out, err: err}
	}
	return out, err
}

func (d *Document) compile(ctx context.Context, content string, opts sheet.Options) (*sheet.Output, error) {
	format, err := document.FormatOf(d.Path())
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse([]byte(content), format)
	if err != nil {
		return nil, err
	}
	doc.Path = d.Path()
	return sheet.Compile(ctx, doc, opts)
}

// Invalidate drops the cached compilation
func (d *Document) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.compiled = nil
}

// Position converts a byte offset to an LSP position, counting UTF-16 code
// units within the line
func (d *Document) Position(offset int) protocol.Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position(offset)
}

func (d *Document) position(offset int) protocol.Position {
	offset = min(max(offset, 0), len(d.content))
	line := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > offset }) - 1
	start := d.lines[line]
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(utf16Len(d.content[start:offset])),
	}
}

// Range converts a byte range to an LSP range
func (d *Document) Range(start, end int) protocol.Range {
	d.mu.Lock()
	defer d.mu.Unlock()
	return protocol.Range{Start: d.position(start), End: d.position(end)}
}

// Offset converts an LSP position to a byte offset. Positions past the end
// of a line clamp to the line end; positions inside a surrogate pair clamp
// to the start of the character.
func (d *Document) Offset(pos protocol.Position) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.offset(pos)
}

func (d *Document) offset(pos protocol.Position) (int, error) {
	line := int(pos.Line)
	if line >= len(d.lines) {
		if line == len(d.lines) && pos.Character == 0 {
			return len(d.content), nil
		}
		return 0, fmt.Errorf("line %d out of bounds (total lines: %d)", line, len(d.lines))
	}

	start := d.lines[line]
	end := len(d.content)
	if line+1 < len(d.lines) {
		end = d.lines[line+1] - 1
	}

	offset, units := start, 0
	for offset < end && units < int(pos.Character) {
		r, size := utf8.DecodeRuneInString(d.content[offset:end])
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		if units+n > int(pos.Character) {
			break
		}
		units += n
		offset += size
	}
	return offset, nil
}

// KeyEnd returns the end offset of the mapping key starting at offset: past
// the closing quote of a quoted key, else at the ":" ending a YAML key
func (d *Document) KeyEnd(offset int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.content
	if offset < 0 || offset >= len(s) {
		return offset
	}
	if q := s[offset]; q == '"' || q == '\'' {
		for i := offset + 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case q:
				return i + 1
			case '\n':
				return i
			}
		}
		return len(s)
	}
	for i := offset; i < len(s); i++ {
		if s[i] == ':' || s[i] == '\n' {
			return i
		}
	}
	return len(s)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
