package emit

import (
	"strings"

	"bennypowers.dev/stylenorm/internal/keys"
	"bennypowers.dev/stylenorm/internal/path"
	"bennypowers.dev/stylenorm/internal/style"
)

const indentUnit = "  "

// writer renders normalized results as indented CSS text
type writer struct {
	b     strings.Builder
	depth int
}

func (w *writer) String() string {
	return w.b.String()
}

func (w *writer) line(s string) {
	w.b.WriteString(strings.Repeat(indentUnit, w.depth))
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) open(header string) {
	w.line(header + " {")
	w.depth++
}

func (w *writer) close() {
	w.depth--
	w.line("}")
}

// block renders result for selector: its own declarations first, then its
// "selectors" entries and at-rules in result order
func (w *writer) block(selector string, result *style.Map) {
	var decls []string
	result.Range(func(key string, value any) bool {
		if key == style.SelectorsKey || strings.HasPrefix(key, "@") {
			return true
		}
		decls = append(decls, declarations(key, value)...)
		return true
	})

	if len(decls) > 0 {
		w.open(selector)
		for _, d := range decls {
			w.line(d)
		}
		w.close()
	}

	result.Range(func(key string, value any) bool {
		body, ok := value.(*style.Map)
		if !ok {
			return true
		}
		switch {
		case key == style.SelectorsKey:
			body.Range(func(child string, v any) bool {
				if m, ok := v.(*style.Map); ok {
					w.block(path.Nest(selector, child), m)
				}
				return true
			})
		case strings.HasPrefix(key, "@"):
			w.atRule(selector, key, body)
		}
		return true
	})
}

// atRule renders an at-rule entry of a result. Canonical at-rules map
// conditions to bodies; anything else is a verbatim at-rule holding one body.
func (w *writer) atRule(selector, key string, body *style.Map) {
	name, _, literal := keys.SplitAtRule(key)
	if literal || !keys.IsKnownAtRule(name) {
		if !hasOutput(body) {
			return
		}
		w.open(key)
		w.block(selector, body)
		w.close()
		return
	}

	body.Range(func(cond string, v any) bool {
		inner, ok := v.(*style.Map)
		if !ok || !hasOutput(inner) {
			return true
		}
		w.open(key + " " + cond)
		w.block(selector, inner)
		w.close()
		return true
	})
}

func (w *writer) keyframes(name string, frames *style.Map) {
	w.open("@keyframes " + name)
	frames.Range(func(frame string, v any) bool {
		if body, ok := v.(*style.Map); ok {
			w.block(frame, body)
		}
		return true
	})
	w.close()
}

func (w *writer) fontFace(family string, body *style.Map) {
	w.open("@font-face")
	w.line("font-family: " + quoteFamily(family) + ";")
	body.Range(func(key string, value any) bool {
		for _, d := range declarations(key, value) {
			w.line(d)
		}
		return true
	})
	w.close()
}

// declarations renders key: value. A fallback list renders one declaration
// per entry, in order, so later entries win where supported.
func declarations(key string, value any) []string {
	prop := PropertyName(key)
	switch v := value.(type) {
	case nil, *style.Map:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, prop+": "+style.FormatScalar(item)+";")
		}
		return out
	default:
		return []string{prop + ": " + style.FormatScalar(v) + ";"}
	}
}

// PropertyName renders a result key as a CSS property name. Custom
// properties are kept, everything else is kebab-cased.
func PropertyName(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	return keys.CamelToKebab(key)
}

// hasOutput reports whether rendering m writes anything
func hasOutput(m *style.Map) bool {
	found := false
	m.Range(func(_ string, v any) bool {
		switch t := v.(type) {
		case nil:
		case *style.Map:
			found = hasOutput(t)
		case []any:
			found = len(t) > 0
		default:
			found = true
		}
		return !found
	})
	return found
}
