package keys

import (
	"strings"
	"unicode"
)

// PseudoSelector rewrites a pseudo shorthand key: "_hover" → ":hover",
// "__before" → "::before", "_firstChild" → ":first-child".
// Keys with three or more leading underscores are not pseudo shorthands.
func PseudoSelector(key string) (string, bool) {
	depth := pseudoDepth(key)
	if depth == 0 {
		return "", false
	}
	return strings.Repeat(":", depth) + CamelToKebab(key[depth:]), true
}

// pseudoDepth returns 1 or 2 for pseudo shorthand keys and 0 otherwise
func pseudoDepth(key string) int {
	n := 0
	for n < len(key) && key[n] == '_' {
		n++
	}
	if n == 0 || n > 2 || n == len(key) {
		return 0
	}
	return n
}

// CustomPropertyName turns a custom property key into its CSS name:
// "--brand" stays, "$brandColor" and "brandColor" become "--brand-color".
func CustomPropertyName(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	return "--" + CamelToKebab(strings.TrimPrefix(key, "$"))
}

// CamelToKebab converts camelCase to kebab-case: "borderTopWidth" →
// "border-top-width". A leading capital marks a vendor prefix ("WebkitAppearance"
// → "-webkit-appearance"), as does a leading "ms" ("msFlex" → "-ms-flex").
// Digits and existing dashes are kept as they are.
func CamelToKebab(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	if strings.HasPrefix(s, "ms") && len(s) > 2 && unicode.IsUpper(rune(s[2])) {
		b.WriteByte('-')
	}
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JoinGroup joins a grouped longhand property to its parent group:
// ("padding", "top") → "paddingTop". An empty group returns name unchanged.
func JoinGroup(group, name string) string {
	if group == "" || name == "" {
		return group + name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return group + string(runes)
}
