// Package diagnostic turns compilation failures into LSP diagnostics.
package diagnostic

import (
	"errors"
	"strings"

	"bennypowers.dev/stylenorm/internal/document"
	"bennypowers.dev/stylenorm/internal/documents"
	"bennypowers.dev/stylenorm/internal/sheet"
	"bennypowers.dev/stylenorm/internal/style"
	"bennypowers.dev/stylenorm/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const source = "stylenorm"

// GetDiagnostics compiles the document and reports why it failed. A
// document that compiles gets an empty list, clearing earlier diagnostics.
// Documents that are not style documents get nil.
func GetDiagnostics(server types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := server.Document(uri)
	if doc == nil || !doc.IsStyleDocument() {
		return nil, nil
	}

	_, err := server.Compile(uri)
	if err == nil {
		return []protocol.Diagnostic{}, nil
	}
	return []protocol.Diagnostic{Diagnose(doc, err)}, nil
}

// Diagnose locates err in doc: syntax errors at their position, rule
// failures at the offending reference inside the rule when it can be found,
// else at the rule name, and anything else at the offending reference or
// the top of the document.
func Diagnose(doc *documents.Document, err error) protocol.Diagnostic {
	start, end := locate(doc, err)
	severity := protocol.DiagnosticSeverityError
	src := source
	return protocol.Diagnostic{
		Range:    doc.Range(start, end),
		Severity: &severity,
		Source:   &src,
		Message:  message(err),
	}
}

func locate(doc *documents.Document, err error) (int, int) {
	if syntax, ok := document.AsSyntaxError(err); ok {
		return syntax.Span.Offset, syntax.Span.Offset
	}

	token := offendingToken(err)
	content := doc.Content()

	if ruleErr, ok := sheet.AsRuleError(err); ok {
		start := ruleErr.Span.Offset
		if token != "" {
			if i := strings.Index(content[min(start, len(content)):], token); i >= 0 {
				return start + i, start + i + len(token)
			}
		}
		return start, doc.KeyEnd(start)
	}

	if token != "" {
		if i := strings.Index(content, token); i >= 0 {
			return i, i + len(token)
		}
	}
	return 0, 0
}

// offendingToken returns the reference text an error is about
func offendingToken(err error) string {
	var (
		property *style.PropertyReferenceNotFoundError
		variant  *style.VariantReferenceNotFoundError
		circular *style.CircularReferenceError
	)
	switch {
	case errors.As(err, &property):
		return property.Token
	case errors.As(err, &variant):
		return variant.Token
	case errors.As(err, &circular) && len(circular.ReferenceChain) > 1:
		// the first link is a key, the second is written out as a reference
		return circular.ReferenceChain[1]
	}
	return ""
}

// message drops the rule prefix, since the range already points into the
// rule
func message(err error) string {
	if ruleErr, ok := sheet.AsRuleError(err); ok {
		return ruleErr.Err.Error()
	}
	return err.Error()
}
