package path

import "strings"

// Nest installs child under parent. A child that does not reference its
// parent with "&" replaces it; otherwise child is instantiated once per
// top-level fragment of parent with "&" substituted, and the results are
// joined with ", ":
//
//	Nest("nav li > &, .x > &", "&:hover") == "nav li > &:hover, .x > &:hover"
func Nest(parent, child string) string {
	if parent == "" || !strings.Contains(child, "&") {
		return child
	}

	fragments := SplitTopLevel(parent)
	out := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		out = append(out, strings.ReplaceAll(child, "&", frag))
	}
	return strings.Join(out, ", ")
}

// SplitTopLevel splits a selector list on commas that are not inside
// parentheses, brackets or quoted strings. Fragments are trimmed and empty
// fragments dropped.
func SplitTopLevel(selector string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)

	flush := func(end int) {
		if frag := strings.TrimSpace(selector[start:end]); frag != "" {
			parts = append(parts, frag)
		}
	}

	for i := 0; i < len(selector); i++ {
		c := selector[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '\\':
			i++
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(selector))
	return parts
}
