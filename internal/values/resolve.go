package values

import (
	"fmt"

	"bennypowers.dev/stylenorm/internal/style"
)

// Resolve runs the scalar pipeline over a property value: the important
// shorthand, "@name" substitution against refs, then "$name" expansion.
// Sequences are resolved element by element, keeping their order.
// Non-string scalars pass through untouched.
func Resolve(v any, refs map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		return resolveString(t, refs)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			resolved, err := Resolve(item, refs)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case *style.Map:
		return nil, fmt.Errorf("cannot resolve a nested style map as a value")
	default:
		return v, nil
	}
}

func resolveString(s string, refs map[string]any) (any, error) {
	substituted, err := SubstituteReferences(Important(s), refs)
	if err != nil {
		return nil, err
	}
	switch t := substituted.(type) {
	case string:
		return ExpandVars(t), nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			if str, ok := item.(string); ok {
				out[i] = ExpandVars(str)
				continue
			}
			out[i] = item
		}
		return out, nil
	default:
		return t, nil
	}
}
