package values

import (
	"strings"
	"unicode"

	"bennypowers.dev/stylenorm/internal/keys"
)

// varFrame is one open "$name(" reference waiting for its closing paren
type varFrame struct {
	name     string
	fallback strings.Builder
	depth    int
}

// ExpandVars rewrites custom-property shorthand in s:
//
//	$gap            → var(--gap)
//	$gap(8px)       → var(--gap, 8px)
//	$gap()          → var(--gap)
//	$a($b($c))      → var(--a, var(--b, var(--c)))
//
// The scan is a single left-to-right pass. Each "$name(" pushes a frame that
// remembers the paren depth it opened at; the matching ")" pops it and writes
// the resolved var() into the enclosing frame's fallback (or the output).
// References left open at the end of s are written back literally.
func ExpandVars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var (
		root  strings.Builder
		stack []*varFrame
		depth int
		runes = []rune(s)
	)

	current := func() *strings.Builder {
		if len(stack) == 0 {
			return &root
		}
		return &stack[len(stack)-1].fallback
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '$' && i+1 < len(runes) && isVarNameRune(runes[i+1]):
			end := i + 1
			for end < len(runes) && isVarNameRune(runes[end]) {
				end++
			}
			name := string(runes[i+1 : end])
			if end < len(runes) && runes[end] == '(' {
				depth++
				stack = append(stack, &varFrame{name: name, depth: depth})
				i = end
				continue
			}
			current().WriteString(varRef(name, ""))
			i = end - 1

		case r == '(':
			depth++
			current().WriteRune(r)

		case r == ')':
			if n := len(stack); n > 0 && stack[n-1].depth == depth {
				frame := stack[n-1]
				stack = stack[:n-1]
				depth--
				current().WriteString(varRef(frame.name, frame.fallback.String()))
				continue
			}
			if depth > 0 {
				depth--
			}
			current().WriteRune(r)

		default:
			current().WriteRune(r)
		}
	}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		current().WriteString("$" + frame.name + "(" + frame.fallback.String())
	}

	return root.String()
}

func varRef(name, fallback string) string {
	prop := keys.CustomPropertyName(name)
	if fallback = strings.TrimSpace(fallback); fallback == "" {
		return "var(" + prop + ")"
	}
	return "var(" + prop + ", " + fallback + ")"
}

func isVarNameRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
