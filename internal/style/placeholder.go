package style

import "regexp"

// placeholderPattern matches a variant placeholder such as "%primary"
var placeholderPattern = regexp.MustCompile(`%[\w-]+`)

// Placeholders returns the variant placeholder tokens of selector in order
func Placeholders(selector string) []string {
	return placeholderPattern.FindAllString(selector, -1)
}

// HasPlaceholder reports whether selector contains a variant placeholder
func HasPlaceholder(selector string) bool {
	return placeholderPattern.MatchString(selector)
}

// ReplacePlaceholders rewrites every placeholder of selector with fn's result
func ReplacePlaceholders(selector string, fn func(token string) string) string {
	return placeholderPattern.ReplaceAllStringFunc(selector, fn)
}
