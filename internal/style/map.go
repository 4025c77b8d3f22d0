package style

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/elliotchance/orderedmap/v3"
)

// Map is an insertion-ordered mapping from string keys to style values.
//
// The same type carries both sides of normalization: authored style nodes
// (keys encode meaning structurally) and normalized results (plain CSS
// properties, one "selectors" entry, at-rule entries). Values are scalars,
// nested *Map values or []any sequences.
//
// Key order is significant: it is the order in which declarations are
// emitted, and later writes to an existing key keep the key's original
// position.
type Map struct {
	entries *orderedmap.OrderedMap[string, any]
}

// NewMap creates an empty Map
func NewMap() *Map {
	return &Map{entries: orderedmap.NewOrderedMap[string, any]()}
}

// MapOf builds a Map from alternating key/value arguments.
// It panics if the arguments are not key/value pairs with string keys.
func MapOf(pairs ...any) *Map {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("style.MapOf: odd number of arguments (%d)", len(pairs)))
	}
	m := NewMap()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("style.MapOf: key at position %d is %T, not string", i, pairs[i]))
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// Len returns the number of entries. A nil Map is empty.
func (m *Map) Len() int {
	if m == nil || m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// Get returns the value stored under key
func (m *Map) Get(key string) (any, bool) {
	if m == nil || m.entries == nil {
		return nil, false
	}
	return m.entries.Get(key)
}

// Set stores value under key, keeping the position of an existing key
func (m *Map) Set(key string, value any) {
	if m.entries == nil {
		m.entries = orderedmap.NewOrderedMap[string, any]()
	}
	m.entries.Set(key, value)
}

// Delete removes key from the map
func (m *Map) Delete(key string) {
	if m == nil || m.entries == nil {
		return
	}
	m.entries.Delete(key)
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Range(func(key string, _ any) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Range calls fn for every entry in insertion order until fn returns false
func (m *Map) Range(fn func(key string, value any) bool) {
	if m == nil || m.entries == nil {
		return
	}
	for el := m.entries.Front(); el != nil; el = el.Next() {
		if !fn(el.Key, el.Value) {
			return
		}
	}
}

// Child returns the nested map stored under key, creating it when the key is
// absent or holds a non-map value.
func (m *Map) Child(key string) *Map {
	if existing, ok := m.Get(key); ok {
		if child, ok := existing.(*Map); ok {
			return child
		}
	}
	child := NewMap()
	m.Set(key, child)
	return child
}

// Clone returns a deep copy of the map
func (m *Map) Clone() *Map {
	out := NewMap()
	m.Range(func(key string, value any) bool {
		out.Set(key, CloneValue(value))
		return true
	})
	return out
}

// Replace discards the receiver's entries and takes over other's entries
func (m *Map) Replace(other *Map) {
	m.entries = orderedmap.NewOrderedMap[string, any]()
	other.Range(func(key string, value any) bool {
		m.entries.Set(key, value)
		return true
	})
}

// Plain converts the map into nested map[string]any values, dropping order.
// Useful for comparisons and for handing results to encoders that do not
// know about Map.
func (m *Map) Plain() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(key string, value any) bool {
		out[key] = PlainValue(value)
		return true
	})
	return out
}

// MarshalJSON encodes the map as a JSON object preserving key order
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	m.Range(func(key string, value any) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var k, v []byte
		if k, err = json.Marshal(key); err != nil {
			return false
		}
		if v, err = json.Marshal(value); err != nil {
			err = fmt.Errorf("failed to encode %q: %w", key, err)
			return false
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the map as compact JSON
func (m *Map) String() string {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid style map: %v>", err)
	}
	return string(data)
}
