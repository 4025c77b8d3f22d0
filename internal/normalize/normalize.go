// Package normalize turns an authored style node into a normalized result.
//
// The result holds plain properties, at most one "selectors" entry and one
// entry per at-rule name, nested in canonical at-rule order. Declarations
// under a selector with a variant placeholder are diverted into
// ctx.VariantReference for the variant resolver to rewrite later.
package normalize

import (
	"fmt"
	"strings"

	"bennypowers.dev/stylenorm/internal/keys"
	"bennypowers.dev/stylenorm/internal/path"
	"bennypowers.dev/stylenorm/internal/style"
	"bennypowers.dev/stylenorm/internal/values"
)

// Normalize normalizes node under ctx and returns a fresh result. node is not
// modified. A nil ctx is a fresh context; a context without a variant
// reference accumulator gets one.
//
// Every declaration is recorded in ctx.PropertyReference under its property
// name ("$accent" as "accent"), so later values can refer to it with "@name".
//
// Errors are fatal and leave no partial result: a missing or circular
// property reference, a hoist with no ctx.Hoister, or a structurally invalid
// node.
func Normalize(node *style.Map, ctx *style.Context) (*style.Map, error) {
	if ctx == nil {
		ctx = style.NewContext()
	}
	if ctx.VariantReference == nil {
		ctx.VariantReference = style.NewMap()
	}
	if ctx.PropertyReference == nil {
		ctx.PropertyReference = map[string]any{}
	}

	result := style.NewMap()
	if err := walk(result, node, ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func walk(result, node *style.Map, ctx *style.Context) error {
	var err error
	node.Range(func(key string, value any) bool {
		err = entry(result, ctx, key, value)
		return err == nil
	})
	return err
}

func entry(result *style.Map, ctx *style.Context, key string, value any) error {
	switch keys.Classify(key, value) {
	case keys.AtRule:
		return atRule(result, ctx, key, value)

	case keys.Selectors:
		selectors, err := nested(key, value)
		if err != nil {
			return err
		}
		var werr error
		selectors.Range(func(sel string, body any) bool {
			target := sel
			if keys.Classify(sel, body) == keys.Selector {
				target = keys.AttachParent(sel)
			}
			werr = selector(result, ctx, sel, target, body)
			return werr == nil
		})
		return werr

	case keys.Selector:
		return selector(result, ctx, key, keys.AttachParent(key), value)

	case keys.Pseudo:
		pseudo, _ := keys.PseudoSelector(key)
		return selector(result, ctx, key, "&"+pseudo, value)

	case keys.CustomProperty:
		return customProperty(result, ctx, key, value)

	case keys.Vars:
		vars, err := nested(key, value)
		if err != nil {
			return err
		}
		var verr error
		vars.Range(func(name string, v any) bool {
			verr = customProperty(result, ctx, name, v)
			return verr == nil
		})
		return verr

	case keys.MergeComma:
		return merge(result, ctx, key, value, values.CommaSeparator)

	case keys.MergeSpace:
		return merge(result, ctx, key, value, values.SpaceSeparator)

	case keys.AnonymousAtRule:
		return hoist(result, ctx, key, value.(*style.Map))

	default:
		if group, ok := value.(*style.Map); ok {
			return walk(result, group, ctx.WithGroup(keys.JoinGroup(ctx.PropertyGroup, key)))
		}
		return property(result, ctx, key, value)
	}
}

// atRule handles "@name" keys. A bare name maps conditions to bodies; a key
// with a condition ("@media screen") holds the body directly. At-rules outside
// the canonical set are kept verbatim under the current path, their bodies
// normalized from the rule root.
func atRule(result *style.Map, ctx *style.Context, key string, value any) error {
	name, cond, literal := keys.SplitAtRule(key)

	if !keys.IsKnownAtRule(name) {
		body, ok := value.(*style.Map)
		if !ok {
			return property(result, ctx, key, value)
		}
		inner := style.NewMap()
		if err := walk(inner, body, root(ctx)); err != nil {
			return err
		}
		path.PlaceMap(result, ctx, key, inner)
		return nil
	}

	if literal {
		body, err := nested(key, value)
		if err != nil {
			return err
		}
		return walk(result, body, ctx.WithAtRule(name, path.AtRuleKeyMerge(name, ctx.AtRule(name), cond)))
	}

	conditions, err := nested(key, value)
	if err != nil {
		return err
	}
	conditions.Range(func(cond string, v any) bool {
		var body *style.Map
		if body, err = nested(key+" "+cond, v); err != nil {
			return false
		}
		err = walk(result, body, ctx.WithAtRule(name, path.AtRuleKeyMerge(name, ctx.AtRule(name), cond)))
		return err == nil
	})
	return err
}

func selector(result *style.Map, ctx *style.Context, key, sel string, value any) error {
	body, err := nested(key, value)
	if err != nil {
		return err
	}
	return walk(result, body, ctx.WithSelector(path.Nest(ctx.ParentSelector, sel)))
}

func customProperty(result *style.Map, ctx *style.Context, key string, value any) error {
	if _, ok := value.(*style.Map); ok {
		return style.NewInvalidNodeError(key, "custom property values must be scalars or lists")
	}
	resolved, err := values.Resolve(value, ctx.PropertyReference)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	path.Place(result, ctx, keys.CustomPropertyName(key), resolved)
	ctx.PropertyReference[strings.TrimLeft(key, "$-")] = resolved
	return nil
}

func merge(result *style.Map, ctx *style.Context, key string, value any, sep string) error {
	name := keys.StripMergeSuffix(key)
	switch v := value.(type) {
	case []any:
		return property(result, ctx, name, values.Merge(v, sep))
	case *style.Map:
		return walk(result, v, ctx.WithGroup(keys.JoinGroup(ctx.PropertyGroup, name)))
	default:
		return property(result, ctx, name, value)
	}
}

func property(result *style.Map, ctx *style.Context, key string, value any) error {
	resolved, err := values.Resolve(value, ctx.PropertyReference)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	name := keys.JoinGroup(ctx.PropertyGroup, key)
	path.Place(result, ctx, name, resolved)
	ctx.PropertyReference[name] = resolved
	return nil
}

// root returns a context sharing ctx's references and accumulators but with
// no selector, at-rule conditions or property group
func root(ctx *style.Context) *style.Context {
	next := ctx.WithSelector("").WithGroup("")
	next.ParentAtRules = map[style.AtRule]string{}
	return next
}

func nested(key string, value any) (*style.Map, error) {
	body, ok := value.(*style.Map)
	if !ok {
		return nil, style.NewInvalidNodeError(key, fmt.Sprintf("expected a style node, got %T", value))
	}
	return body, nil
}
