package style

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// IsScalar reports whether v is a scalar style value (string, number or boolean)
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// IsSequence reports whether v is an ordered sequence of values
func IsSequence(v any) bool {
	_, ok := v.([]any)
	return ok
}

// FormatScalar renders a scalar as it appears inside CSS text.
// Floats use the shortest representation ("0.5", "12").
func FormatScalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprint(v)
	}
}

// CloneValue deep-copies maps and sequences; scalars are returned as-is
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

// PlainValue converts nested maps inside v to map[string]any
func PlainValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Plain()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = PlainValue(item)
		}
		return out
	default:
		return v
	}
}
