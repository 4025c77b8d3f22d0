// Package values resolves authored style values: the important shorthand,
// "$name" custom-property references, "@name" property references and
// merge lists with fallback groups.
package values

import "strings"

const importantSuffix = " !important"

// Important rewrites the trailing-bang shorthand: "red!" and "red !" both
// become "red !important". Strings without a trailing "!" are returned
// unchanged, so the rewrite is idempotent.
func Important(s string) string {
	if !strings.HasSuffix(s, "!") {
		return s
	}
	base := strings.TrimRight(strings.TrimSuffix(s, "!"), " ")
	if base == "" {
		return strings.TrimPrefix(importantSuffix, " ")
	}
	return base + importantSuffix
}
