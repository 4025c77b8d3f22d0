package normalize

import (
	"fmt"

	"bennypowers.dev/stylenorm/internal/keys"
	"bennypowers.dev/stylenorm/internal/path"
	"bennypowers.dev/stylenorm/internal/style"
	"bennypowers.dev/stylenorm/internal/values"
)

// hoist hands an anonymous keyframes or font-face body to ctx.Hoister and
// installs the returned name as the property value
func hoist(result *style.Map, ctx *style.Context, key string, body *style.Map) error {
	if ctx.Hoister == nil {
		return fmt.Errorf("%s: %w", key, style.ErrNoHoister)
	}

	resolved, err := resolveBody(body, ctx.PropertyReference)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	name := keys.StripMergeSuffix(key)
	var generated string
	switch name {
	case "animationName":
		generated, err = ctx.Hoister.Keyframes(resolved)
	default:
		generated, err = ctx.Hoister.FontFace(resolved)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	path.Place(result, ctx, keys.JoinGroup(ctx.PropertyGroup, name), generated)
	return nil
}

// resolveBody runs the value pipeline over every leaf of body, keeping its
// keys (keyframe selectors, font descriptors) as authored
func resolveBody(body *style.Map, refs map[string]any) (*style.Map, error) {
	out := style.NewMap()
	var err error
	body.Range(func(key string, value any) bool {
		if child, ok := value.(*style.Map); ok {
			var resolved *style.Map
			if resolved, err = resolveBody(child, refs); err != nil {
				return false
			}
			out.Set(key, resolved)
			return true
		}
		var resolved any
		if resolved, err = values.Resolve(value, refs); err != nil {
			err = fmt.Errorf("%s: %w", key, err)
			return false
		}
		out.Set(key, resolved)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
