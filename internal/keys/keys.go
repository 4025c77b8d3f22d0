// Package keys classifies the keys of an authored style node.
//
// Keys carry meaning structurally: "@media" opens an at-rule, "&:hover" a
// selector, "_hover" a pseudo-class shorthand, "$accent" a custom property,
// "transition$" a comma-merged list. Classification is a pure function of the
// key (and, for anonymous at-rules, of whether the value is a nested node).
package keys

import (
	"strings"

	"bennypowers.dev/stylenorm/internal/style"
)

// Kind is the classification of a style node key
type Kind int

const (
	// Property is a plain CSS property
	Property Kind = iota
	// AtRule opens a conditional block: "@media" or "@media (min-width: 1px)"
	AtRule
	// Selectors is the "selectors" map of selector → node
	Selectors
	// Selector is a one-entry selectors shorthand: "&:hover", ":focus", "[disabled]"
	Selector
	// CustomProperty is "$name" or "--name"
	CustomProperty
	// Vars is the "vars" map of custom properties
	Vars
	// Pseudo is "_hover" (":hover") or "__before" ("::before")
	Pseudo
	// AnonymousAtRule is animationName/fontFamily holding a keyframes or font-face body
	AnonymousAtRule
	// MergeComma is a property suffixed with "$", its list joined with ", "
	MergeComma
	// MergeSpace is a property suffixed with "_", its list joined with " "
	MergeSpace
)

var kindNames = map[Kind]string{
	Property:        "property",
	AtRule:          "at-rule",
	Selectors:       "selectors",
	Selector:        "selector",
	CustomProperty:  "custom-property",
	Vars:            "vars",
	Pseudo:          "pseudo",
	AnonymousAtRule: "anonymous-at-rule",
	MergeComma:      "merge-comma",
	MergeSpace:      "merge-space",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

const (
	selectorsKey = "selectors"
	varsKey      = "vars"
)

// Classify returns the kind of key. value is only consulted to tell an
// anonymous at-rule (nested node) from a plain animationName/fontFamily.
func Classify(key string, value any) Kind {
	switch {
	case strings.HasPrefix(key, "@"):
		return AtRule
	case key == selectorsKey:
		return Selectors
	case key == varsKey:
		return Vars
	case strings.HasPrefix(key, "$"), strings.HasPrefix(key, "--"):
		return CustomProperty
	case strings.Contains(key, "&"), strings.HasPrefix(key, "["), strings.HasPrefix(key, ":"):
		return Selector
	case pseudoDepth(key) > 0:
		return Pseudo
	}

	if IsAnonymousAtRule(key) {
		if _, ok := value.(*style.Map); ok {
			return AnonymousAtRule
		}
	}

	switch {
	case len(key) > 1 && strings.HasSuffix(key, "$"):
		return MergeComma
	case len(key) > 1 && strings.HasSuffix(key, "_"):
		return MergeSpace
	}
	return Property
}

// SplitAtRule splits an at-rule key into its name and literal condition.
// "@media screen and (color)" yields ("@media", "screen and (color)", true);
// "@media" yields ("@media", "", false).
func SplitAtRule(key string) (name style.AtRule, cond string, literal bool) {
	idx := strings.IndexByte(key, ' ')
	if idx < 0 {
		return style.AtRule(key), "", false
	}
	return style.AtRule(key[:idx]), strings.TrimSpace(key[idx+1:]), true
}

// IsKnownAtRule reports whether name takes part in the canonical at-rule order
func IsKnownAtRule(name style.AtRule) bool {
	for _, known := range style.AtRuleOrder {
		if name == known {
			return true
		}
	}
	return false
}

// StripMergeSuffix removes a trailing "$" or "_" merge marker
func StripMergeSuffix(key string) string {
	if len(key) > 1 && (strings.HasSuffix(key, "$") || strings.HasSuffix(key, "_")) {
		return key[:len(key)-1]
	}
	return key
}

// IsAnonymousAtRule reports whether key names a property whose nested value
// is hoisted into a keyframes or font-face block.
func IsAnonymousAtRule(key string) bool {
	switch StripMergeSuffix(key) {
	case "animationName", "fontFamily":
		return true
	}
	return false
}

// AttachParent turns a selector shorthand key into a selector: keys that
// already reference the parent with "&" are kept, ":focus" and "[disabled]"
// are attached to it.
func AttachParent(key string) string {
	if strings.Contains(key, "&") {
		return key
	}
	return "&" + key
}
