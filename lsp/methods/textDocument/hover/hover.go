// Package hover shows the CSS a rule compiles to.
package hover

import (
	"fmt"
	"strings"

	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Hover handles the textDocument/hover request. Hovering a rule name shows
// the rule's class and the CSS emitted for it, including the global rules
// its variant references produce.
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil || !doc.IsStyleDocument() {
		return nil, nil
	}

	offset, err := doc.Offset(params.Position)
	if err != nil {
		return nil, err
	}

	out, err := req.Server.Compile(uri)
	if err != nil {
		// diagnostics already report it
		log.Debug("No hover for %s: %v", uri, err)
		return nil, nil
	}

	for _, rule := range out.Rules {
		start := rule.Span.Offset
		end := doc.KeyEnd(start)
		if offset < start || offset >= end {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "**%s** `.%s`\n", rule.Name, rule.Class)
		if css := out.Sheet.RuleCSS(rule.Class); css != "" {
			fmt.Fprintf(&b, "\n```css\n%s```\n", css)
		}
		rng := doc.Range(start, end)
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: b.String(),
			},
			Range: &rng,
		}, nil
	}
	return nil, nil
}
