package document

import (
	"fmt"
	"unicode/utf8"

	"bennypowers.dev/stylenorm/internal/style"
	"gopkg.in/yaml.v3"
)

// yamlReader builds ordered maps from a yaml.v3 node tree
type yamlReader struct {
	src   []byte
	lines lines
	spans map[string]Span
}

func parseYAML(data []byte) (*style.Map, map[string]Span, error) {
	r := &yamlReader{src: data, lines: newLines(data), spans: map[string]Span{}}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, &SyntaxError{Span: yamlErrorSpan(err, r.lines), Err: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return style.NewMap(), r.spans, nil
	}

	v, err := r.value(root.Content[0], nil)
	if err != nil {
		return nil, nil, err
	}
	tree, ok := v.(*style.Map)
	if !ok {
		return nil, nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidDocument)
	}
	return tree, r.spans, nil
}

func (r *yamlReader) value(n *yaml.Node, path []string) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return r.value(n.Content[0], path)

	case yaml.AliasNode:
		return r.value(n.Alias, path)

	case yaml.MappingNode:
		m := style.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, &SyntaxError{Span: r.span(k), Err: fmt.Errorf("mapping keys must be scalars")}
			}
			if len(path) == 1 && path[0] == RulesKey {
				r.spans[k.Value] = r.span(k)
			}
			child, err := r.value(v, append(path, k.Value))
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, child)
		}
		return m, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := r.value(item, path)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil

	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &SyntaxError{Span: r.span(n), Err: err}
		}
		if v != nil && !style.IsScalar(v) {
			// timestamps and other tagged scalars stay as written
			return n.Value, nil
		}
		return v, nil
	}
}

// span converts yaml.v3's one-based line and rune column to a Span
func (r *yamlReader) span(n *yaml.Node) Span {
	line := n.Line - 1
	if line < 0 || line >= len(r.lines) {
		return Span{}
	}
	start := r.lines[line]
	col := 0
	for runes := 1; runes < n.Column && start+col < len(r.src); runes++ {
		_, size := utf8.DecodeRune(r.src[start+col:])
		col += size
	}
	return r.lines.at(line, col)
}
