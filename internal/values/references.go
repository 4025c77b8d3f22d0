package values

import (
	"strings"
	"unicode"

	"bennypowers.dev/stylenorm/internal/collections"
	"bennypowers.dev/stylenorm/internal/style"
)

// Reference is one "@name" token found in a value
type Reference struct {
	Name  string
	Start int
	End   int
}

// Token returns the literal token text, e.g. "@gap"
func (r Reference) Token() string {
	return "@" + r.Name
}

// FindReferences returns the "@name" tokens of s in order.
// A token starts with "@" not preceded by a word character, followed by a
// letter or underscore, then letters, digits, "_" or "-".
func FindReferences(s string) []Reference {
	var refs []Reference
	for i := 0; i < len(s); i++ {
		if s[i] != '@' || i+1 >= len(s) || !isNameStart(s[i+1]) {
			continue
		}
		if i > 0 && isWordByte(s[i-1]) {
			continue
		}
		end := i + 2
		for end < len(s) && (isWordByte(s[end]) || s[end] == '-') {
			end++
		}
		refs = append(refs, Reference{Name: s[i+1 : end], Start: i, End: end})
		i = end - 1
	}
	return refs
}

// SubstituteReferences replaces the "@name" tokens of s with their values
// from refs, following references inside referenced values until none are
// left.
//
// When s is exactly one token and the referenced value is not a string, the
// value is returned with its type intact; otherwise values are stringified
// into the surrounding text, sequences joined with ", ".
//
// A token with no entry fails with PropertyReferenceNotFoundError, a chain
// that returns to a name already being resolved fails with
// CircularReferenceError.
func SubstituteReferences(s string, refs map[string]any) (any, error) {
	sub := &substitution{refs: refs, chain: collections.NewTrail[string]()}
	return sub.text(s)
}

type substitution struct {
	refs  map[string]any
	chain *collections.Trail[string]
}

func (s *substitution) text(in string) (any, error) {
	found := FindReferences(in)
	if len(found) == 0 {
		return in, nil
	}
	if len(found) == 1 && found[0].Start == 0 && found[0].End == len(in) {
		return s.lookup(found[0])
	}

	var b strings.Builder
	last := 0
	for _, ref := range found {
		b.WriteString(in[last:ref.Start])
		v, err := s.lookup(ref)
		if err != nil {
			return nil, err
		}
		b.WriteString(Stringify(v))
		last = ref.End
	}
	b.WriteString(in[last:])
	return b.String(), nil
}

func (s *substitution) lookup(ref Reference) (any, error) {
	v, ok := s.refs[ref.Name]
	if !ok {
		return nil, style.NewPropertyReferenceNotFoundError(ref.Token(), s.tokens())
	}
	if !s.chain.Push(ref.Name) {
		return nil, style.NewCircularReferenceError(append(s.tokens(), ref.Token()))
	}
	defer s.chain.Pop()

	switch t := v.(type) {
	case string:
		return s.text(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			str, ok := item.(string)
			if !ok {
				out[i] = item
				continue
			}
			resolved, err := s.text(str)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

func (s *substitution) tokens() []string {
	if s.chain.Len() == 0 {
		return nil
	}
	return refTokens(s.chain.Items())
}

// Stringify renders a resolved value for inclusion in surrounding text
func Stringify(v any) string {
	if seq, ok := v.([]any); ok {
		parts := make([]string, len(seq))
		for i, item := range seq {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ", ")
	}
	return style.FormatScalar(v)
}

func isNameStart(b byte) bool {
	return b == '_' || (b < 0x80 && unicode.IsLetter(rune(b)))
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
