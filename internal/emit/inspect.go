package emit

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// ErrInvalidCSS indicates rendered CSS that does not parse
var ErrInvalidCSS = errors.New("invalid CSS")

// Position is a zero-based location in CSS text
type Position struct {
	Line      uint32
	Character uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Report is what tree-sitter found in a piece of CSS
type Report struct {
	// Errors locates ERROR and MISSING nodes
	Errors []Position
	// Declared lists custom properties declared in the CSS, in order
	Declared []string
	// Used lists custom properties referenced through var(), in order
	Used []string
}

// Undeclared returns custom properties used but not declared, deduplicated.
// They are usually provided by token style sheets loaded alongside.
func (r *Report) Undeclared() []string {
	var out []string
	for _, name := range r.Used {
		if !slices.Contains(r.Declared, name) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// Inspect parses css with tree-sitter
func Inspect(css string) (*Report, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(tree_sitter_css.Language()))

	source := []byte(css)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	report := &Report{}
	walk(tree.RootNode(), source, report)
	return report, nil
}

// Validate checks that css parses without errors
func Validate(css string) error {
	report, err := Inspect(css)
	if err != nil {
		return err
	}
	if len(report.Errors) > 0 {
		return fmt.Errorf("%w at %s", ErrInvalidCSS, report.Errors[0])
	}
	return nil
}

// Validate checks the rendered sheet
func (s *Sheet) Validate() error {
	return Validate(s.CSS())
}

func walk(node *sitter.Node, source []byte, report *Report) {
	if node == nil {
		return
	}

	if node.IsError() || node.IsMissing() {
		start := node.StartPosition()
		report.Errors = append(report.Errors, Position{Line: uint32(start.Row), Character: uint32(start.Column)})
	}

	switch node.Kind() {
	case "declaration":
		if name := childText(node, "property_name", source); strings.HasPrefix(name, "--") {
			report.Declared = append(report.Declared, name)
		}
	case "call_expression":
		if childText(node, "function_name", source) == "var" {
			if name := firstArgument(node, source); name != "" {
				report.Used = append(report.Used, name)
			}
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), source, report)
	}
}

func childText(node *sitter.Node, kind string, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return string(source[child.StartByte():child.EndByte()])
		}
	}
	return ""
}

func firstArgument(call *sitter.Node, source []byte) string {
	for i := uint(0); i < call.ChildCount(); i++ {
		args := call.Child(i)
		if args.Kind() != "arguments" {
			continue
		}
		for j := uint(0); j < args.ChildCount(); j++ {
			arg := args.Child(j)
			switch arg.Kind() {
			case "(", ")", ",":
				continue
			}
			return strings.TrimSpace(string(source[arg.StartByte():arg.EndByte()]))
		}
	}
	return ""
}
