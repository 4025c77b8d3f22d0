// Package documentcolor decorates color literals in style documents.
package documentcolor

import (
	"fmt"
	"regexp"

	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/lsp/types"
	"github.com/mazznoer/csscolorparser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorLiteral matches hex colors and CSS color functions
var colorLiteral = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b|\b(?:rgba?|hsla?|hwb|lab|lch|oklab|oklch)\([^()\n]*\)`)

// DocumentColor handles the textDocument/documentColor request
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	doc := req.Server.Document(params.TextDocument.URI)
	if doc == nil || !doc.IsStyleDocument() {
		return nil, nil
	}

	content := doc.Content()
	colors := []protocol.ColorInformation{}
	for _, loc := range colorLiteral.FindAllStringIndex(content, -1) {
		literal := content[loc[0]:loc[1]]
		color, err := parseColor(literal)
		if err != nil {
			// lab() and friends may be out of the parser's reach
			log.Debug("Skipping color %s: %v", literal, err)
			continue
		}
		colors = append(colors, protocol.ColorInformation{
			Range: doc.Range(loc[0], loc[1]),
			Color: *color,
		})
	}
	return colors, nil
}

// ColorPresentation handles the textDocument/colorPresentation request,
// offering hex and rgb() spellings of the picked color
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	c := csscolorparser.Color{
		R: float64(params.Color.Red),
		G: float64(params.Color.Green),
		B: float64(params.Color.Blue),
		A: float64(params.Color.Alpha),
	}

	r, g, b, _ := c.RGBA255()
	rgb := fmt.Sprintf("rgb(%d %d %d)", r, g, b)
	if c.A < 1 {
		rgb = fmt.Sprintf("rgb(%d %d %d / %s)", r, g, b, trimFloat(c.A))
	}

	labels := []string{c.HexString(), rgb}
	presentations := make([]protocol.ColorPresentation, len(labels))
	for i, label := range labels {
		edit := protocol.TextEdit{Range: params.Range, NewText: label}
		presentations[i] = protocol.ColorPresentation{Label: label, TextEdit: &edit}
	}
	return presentations, nil
}

func parseColor(value string) (*protocol.Color, error) {
	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("unsupported color format: %s", value)
	}
	return &protocol.Color{
		Red:   protocol.Decimal(parsed.R),
		Green: protocol.Decimal(parsed.G),
		Blue:  protocol.Decimal(parsed.B),
		Alpha: protocol.Decimal(parsed.A),
	}, nil
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%.2g", f)
}
