package style

import (
	"maps"
	"strings"
)

// AtRule is the name of a conditional at-rule, including its "@"
type AtRule string

const (
	AtRuleLayer     AtRule = "@layer"
	AtRuleSupports  AtRule = "@supports"
	AtRuleMedia     AtRule = "@media"
	AtRuleContainer AtRule = "@container"
)

// AtRuleOrder is the fixed nesting order of at-rules in a normalized result.
// An outer at-rule always precedes an inner one in this list.
var AtRuleOrder = []AtRule{AtRuleLayer, AtRuleSupports, AtRuleMedia, AtRuleContainer}

// SelectorsKey is the result key holding selector → result entries
const SelectorsKey = "selectors"

// Name returns the at-rule name without its "@"
func (a AtRule) Name() string {
	return strings.TrimPrefix(string(a), "@")
}

// Hoister receives anonymous at-rule bodies found in a style node
// (keyframes under animationName, font faces under fontFamily) and returns
// the generated name to install in their place.
type Hoister interface {
	Keyframes(body *Map) (string, error)
	FontFace(body *Map) (string, error)
}

// Context carries the state of one normalization call.
//
// A Context is copy-on-descend: WithSelector, WithAtRule and WithGroup return
// a copy that differs from the receiver in one field only, so siblings never
// observe each other's extensions. PropertyReference, VariantReference and
// Hoister are shared by all copies. Normalization writes to the two reference
// accumulators: each declaration is recorded in PropertyReference, and
// placeholder selectors collect into VariantReference. Give every top-level
// call its own Context.
type Context struct {
	// ParentSelector is the active selector, possibly a comma list; empty at the rule root
	ParentSelector string

	// ParentAtRules holds one merged condition per at-rule name
	ParentAtRules map[AtRule]string

	// PropertyGroup prefixes leaf property names inside a grouped longhand
	// mapping such as padding: {top: ...}
	PropertyGroup string

	// PropertyReference maps a name to the value substituted for "@name"
	PropertyReference map[string]any

	// VariantReference accumulates selector-with-placeholder → result
	VariantReference *Map

	// VariantMap maps a placeholder token such as "%primary" to its final
	// identifier. Only the variant resolver reads it.
	VariantMap map[string]string

	// Hoister receives keyframes and font-face bodies
	Hoister Hoister
}

// NewContext returns a fresh context: no selector, no at-rule conditions,
// empty reference maps.
func NewContext() *Context {
	return &Context{
		ParentAtRules:     map[AtRule]string{},
		PropertyReference: map[string]any{},
		VariantReference:  NewMap(),
		VariantMap:        map[string]string{},
	}
}

// AtRule returns the active condition for name, or ""
func (c *Context) AtRule(name AtRule) string {
	return c.ParentAtRules[name]
}

// WithSelector returns a copy of c with selector installed as ParentSelector
func (c *Context) WithSelector(selector string) *Context {
	next := c.clone()
	next.ParentSelector = selector
	return next
}

// WithAtRule returns a copy of c whose condition for name is replaced by cond
func (c *Context) WithAtRule(name AtRule, cond string) *Context {
	next := c.clone()
	next.ParentAtRules = maps.Clone(c.ParentAtRules)
	if next.ParentAtRules == nil {
		next.ParentAtRules = map[AtRule]string{}
	}
	next.ParentAtRules[name] = cond
	return next
}

// WithGroup returns a copy of c with group as PropertyGroup
func (c *Context) WithGroup(group string) *Context {
	next := c.clone()
	next.PropertyGroup = group
	return next
}

func (c *Context) clone() *Context {
	next := *c
	return &next
}
