package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"bennypowers.dev/stylenorm/internal/style"
	"github.com/tidwall/jsonc"
)

// jsonReader builds ordered maps from a JSON token stream
type jsonReader struct {
	dec   *json.Decoder
	src   []byte
	lines lines
	spans map[string]Span
}

// parseJSON parses JSON or JSONC source. Comments and trailing commas are
// blanked by jsonc.ToJSON, which keeps byte offsets intact.
func parseJSON(data []byte) (*style.Map, map[string]Span, error) {
	clean := jsonc.ToJSON(data)

	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.UseNumber()
	r := &jsonReader{dec: dec, src: clean, lines: newLines(clean), spans: map[string]Span{}}

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return style.NewMap(), r.spans, nil
	}
	if err != nil {
		return nil, nil, r.syntaxError(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("%w: top level must be an object", ErrInvalidDocument)
	}

	tree, err := r.object(nil)
	if err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, &SyntaxError{Span: r.lines.span(int(dec.InputOffset())), Err: errors.New("unexpected data after top-level object")}
	}
	return tree, r.spans, nil
}

func (r *jsonReader) value(tok json.Token, path []string) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return r.object(path)
		case '[':
			return r.array(path)
		}
		return nil, &SyntaxError{Span: r.lines.span(int(r.dec.InputOffset())), Err: fmt.Errorf("unexpected %q", t)}
	case json.Number:
		return number(t), nil
	default:
		return t, nil
	}
}

func (r *jsonReader) object(path []string) (*style.Map, error) {
	m := style.NewMap()
	for r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, r.syntaxError(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &SyntaxError{Span: r.lines.span(int(r.dec.InputOffset())), Err: fmt.Errorf("expected object key, got %v", tok)}
		}
		if len(path) == 1 && path[0] == RulesKey {
			r.spans[key] = r.lines.span(keyStart(r.src, int(r.dec.InputOffset())))
		}

		tok, err = r.dec.Token()
		if err != nil {
			return nil, r.syntaxError(err)
		}
		v, err := r.value(tok, append(path, key))
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	if _, err := r.dec.Token(); err != nil {
		return nil, r.syntaxError(err)
	}
	return m, nil
}

func (r *jsonReader) array(path []string) ([]any, error) {
	out := []any{}
	for r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, r.syntaxError(err)
		}
		v, err := r.value(tok, path)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := r.dec.Token(); err != nil {
		return nil, r.syntaxError(err)
	}
	return out, nil
}

func (r *jsonReader) syntaxError(err error) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return &SyntaxError{Span: r.lines.span(int(syntax.Offset)), Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Span: r.lines.span(len(r.src)), Err: io.ErrUnexpectedEOF}
	}
	return &SyntaxError{Span: r.lines.span(int(r.dec.InputOffset())), Err: err}
}

// keyStart finds the opening quote of the string token ending at end
func keyStart(src []byte, end int) int {
	for i := end - 2; i >= 0; i-- {
		if src[i] != '"' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && src[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return 0
}

// number converts integral JSON numbers to int and the rest to float64
func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
