// Package path places resolved declarations into a normalized result.
//
// A declaration's location is implied by the context it was found in: the
// active at-rule conditions, nested in canonical order, then the active
// selector under "selectors". Selectors carrying a variant placeholder are
// diverted into the context's variant reference accumulator.
package path

import (
	"strings"

	"bennypowers.dev/stylenorm/internal/style"
)

// Segment is one step of a nested path: a container key and the entry inside it
type Segment struct {
	Key   string
	Entry string
}

func (s Segment) String() string {
	return s.Key + "[" + s.Entry + "]"
}

// Build returns the nested path implied by ctx: one segment per active
// at-rule in canonical order, then ("selectors", selector) unless the
// selector is empty or holds a variant placeholder.
func Build(ctx *style.Context) []Segment {
	segments := AtRules(ctx)
	if sel := ctx.ParentSelector; sel != "" && !style.HasPlaceholder(sel) {
		segments = append(segments, Segment{Key: style.SelectorsKey, Entry: sel})
	}
	return segments
}

// AtRules returns the at-rule part of the path implied by ctx
func AtRules(ctx *style.Context) []Segment {
	var segments []Segment
	for _, name := range style.AtRuleOrder {
		if cond := ctx.AtRule(name); cond != "" {
			segments = append(segments, Segment{Key: string(name), Entry: cond})
		}
	}
	return segments
}

// Descend walks segments from m, creating maps as needed, and returns the
// innermost map
func Descend(m *style.Map, segments []Segment) *style.Map {
	for _, seg := range segments {
		m = m.Child(seg.Key).Child(seg.Entry)
	}
	return m
}

// Place writes key → value at the location ctx implies.
//
// Under a placeholder selector nothing is written to result: the declaration
// is placed in a side result along the at-rule path only, which is then
// deep-merged into ctx.VariantReference under the unmodified selector.
func Place(result *style.Map, ctx *style.Context, key string, value any) {
	if sel := ctx.ParentSelector; style.HasPlaceholder(sel) {
		side := style.NewMap()
		Descend(side, AtRules(ctx)).Set(key, value)
		DeepMerge(ctx.VariantReference.Child(sel), side)
		return
	}
	Descend(result, Build(ctx)).Set(key, value)
}

// PlaceMap deep-merges body at the location ctx implies, with the same
// placeholder diversion as Place
func PlaceMap(result *style.Map, ctx *style.Context, key string, body *style.Map) {
	target := style.NewMap()
	target.Set(key, body)
	if sel := ctx.ParentSelector; style.HasPlaceholder(sel) {
		side := style.NewMap()
		DeepMerge(Descend(side, AtRules(ctx)), target)
		DeepMerge(ctx.VariantReference.Child(sel), side)
		return
	}
	DeepMerge(Descend(result, Build(ctx)), target)
}

// DeepMerge merges src into dst by key equality. Nested maps under equal keys
// are merged recursively, so identical at-rule conditions and selectors share
// one body while different ones stay siblings. Any other value in src
// replaces dst's value, keeping dst's key position.
func DeepMerge(dst, src *style.Map) {
	src.Range(func(key string, value any) bool {
		incoming, isMap := value.(*style.Map)
		if isMap {
			if existing, ok := dst.Get(key); ok {
				if current, ok := existing.(*style.Map); ok {
					DeepMerge(current, incoming)
					return true
				}
			}
		}
		dst.Set(key, style.CloneValue(value))
		return true
	})
}

// AtRuleKeyMerge combines an active condition for name (outer) with a newly
// entered one (inner):
//
//	"" + B                      → B
//	A + "" or A + "A..."        → the inner condition
//	"not" + B                   → not(B)
//	@layer: A + B               → A.B
//	otherwise                   → A and B
func AtRuleKeyMerge(name style.AtRule, outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "", strings.HasPrefix(inner, outer):
		return inner
	case outer == "not":
		return "not(" + inner + ")"
	case name == style.AtRuleLayer:
		return outer + "." + inner
	default:
		return outer + " and " + inner
	}
}
