// Package document loads style documents: a set of named sibling rules, the
// property references they share and the design-token files feeding those
// references.
//
//	references:
//	  gap: 8px
//	tokens:
//	  - ./tokens.json
//	rules:
//	  button:
//	    padding: "@gap"
//	    _hover: { color: red! }
//
// Documents are JSON, JSONC or YAML. Key order is preserved everywhere, so
// rules and declarations keep their authored order.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/stylenorm/internal/style"
)

// Sentinel errors for error type checking
var (
	// ErrUnsupportedFormat indicates a file extension with no loader
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidDocument indicates a document whose top level has the wrong shape
	ErrInvalidDocument = errors.New("invalid style document")
)

// Top-level document keys
const (
	ReferencesKey = "references"
	TokensKey     = "tokens"
	RulesKey      = "rules"
)

// Format is the serialization of a document
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatOf picks a format from the file extension
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// Span locates a key in the document source. Line and Column are
// zero-based; Column counts bytes.
type Span struct {
	Offset int
	Line   int
	Column int
}

// Rule is one named style rule of a document
type Rule struct {
	Name string
	Node *style.Map
	// Span locates the rule's name
	Span Span
}

// Document is a parsed style document
type Document struct {
	// Path is the file the document was loaded from, if any
	Path string

	// References are property references shared by every rule.
	// Nested groups are flattened with "-": {space: {sm: 4px}} is "space-sm".
	References map[string]any

	// Tokens lists design-token files, relative to the document
	Tokens []string

	// Rules in authored order
	Rules []Rule
}

// Rule returns the rule named name
func (d *Document) Rule(name string) (Rule, bool) {
	for _, r := range d.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// TokenPaths resolves the document's token files against its directory
func (d *Document) TokenPaths() []string {
	paths := make([]string, 0, len(d.Tokens))
	for _, p := range d.Tokens {
		if !filepath.IsAbs(p) && d.Path != "" {
			p = filepath.Join(filepath.Dir(d.Path), p)
		}
		paths = append(paths, filepath.Clean(p))
	}
	return paths
}

// Load reads and parses the document at filename
func Load(filename string) (*Document, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", filename, err)
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", filename, err)
	}
	doc.Path = filename
	return doc, nil
}

// Parse parses document source in the given format
func Parse(data []byte, format Format) (*Document, error) {
	var (
		tree  *style.Map
		spans map[string]Span
		err   error
	)
	switch format {
	case FormatYAML:
		tree, spans, err = parseYAML(data)
	default:
		tree, spans, err = parseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return build(tree, spans)
}

func build(tree *style.Map, spans map[string]Span) (*Document, error) {
	doc := &Document{References: map[string]any{}}

	var err error
	tree.Range(func(key string, value any) bool {
		switch key {
		case ReferencesKey:
			refs, ok := value.(*style.Map)
			if !ok {
				err = fmt.Errorf("%w: %q must be a mapping", ErrInvalidDocument, key)
				return false
			}
			flattenReferences("", refs, doc.References)

		case TokensKey:
			doc.Tokens, err = stringList(key, value)

		case RulesKey:
			rules, ok := value.(*style.Map)
			if !ok {
				err = fmt.Errorf("%w: %q must be a mapping", ErrInvalidDocument, key)
				return false
			}
			rules.Range(func(name string, node any) bool {
				body, ok := node.(*style.Map)
				if !ok {
					err = fmt.Errorf("%w: rule %q must be a mapping, got %T", ErrInvalidDocument, name, node)
					return false
				}
				doc.Rules = append(doc.Rules, Rule{Name: name, Node: body, Span: spans[name]})
				return true
			})

		default:
			err = fmt.Errorf("%w: unknown top-level key %q", ErrInvalidDocument, key)
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func flattenReferences(prefix string, refs *style.Map, out map[string]any) {
	refs.Range(func(key string, value any) bool {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}
		if group, ok := value.(*style.Map); ok {
			flattenReferences(name, group, out)
			return true
		}
		out[name] = value
		return true
	})
}

func stringList(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %q entries must be strings, got %T", ErrInvalidDocument, key, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q must be a string or a list of strings", ErrInvalidDocument, key)
}
