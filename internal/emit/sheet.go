// Package emit renders normalized style results to CSS.
//
// A Sheet collects class rules, the global rules produced by resolved variant
// references, and the keyframes and font faces hoisted during
// normalization. It implements style.Hoister, and is safe for concurrent use
// so the rules of one document can be normalized in parallel.
package emit

import (
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/stylenorm/internal/style"
	"github.com/maruel/natural"
)

// Options configure a Sheet
type Options struct {
	// ClassPrefix is prepended to every generated class identifier
	ClassPrefix string
}

// ClassRule is a normalized rule bound to its class identifier
type ClassRule struct {
	Name   string
	Class  string
	Result *style.Map
}

// GlobalRule is a resolved variant reference: a selector in which "&" stands
// for the owning rule's class
type GlobalRule struct {
	Owner    string
	Selector string
	Body     *style.Map
}

type hoisted struct {
	name string
	body *style.Map
}

// Sheet accumulates everything a document emits
type Sheet struct {
	opts Options

	mu        sync.Mutex
	classes   []ClassRule
	globals   []GlobalRule
	keyframes []hoisted
	fontFaces []hoisted
	seen      map[string]bool
}

var _ style.Hoister = (*Sheet)(nil)

// NewSheet creates an empty Sheet
func NewSheet(opts Options) *Sheet {
	return &Sheet{opts: opts, seen: map[string]bool{}}
}

// ClassName returns the identifier for the rule name within scope
func (s *Sheet) ClassName(scope, name string) string {
	return Identifier(s.opts.ClassPrefix, scope, name)
}

// Keyframes registers a keyframes body and returns its generated name.
// Identical bodies share a name.
func (s *Sheet) Keyframes(body *style.Map) (string, error) {
	return s.hoist(&s.keyframes, "keyframes", body), nil
}

// FontFace registers a font-face body and returns its generated family name,
// quoted for use as a font-family value. Identical bodies share a family.
func (s *Sheet) FontFace(body *style.Map) (string, error) {
	return quoteFamily(s.hoist(&s.fontFaces, "font", body)), nil
}

func (s *Sheet) hoist(list *[]hoisted, kind string, body *style.Map) string {
	name := contentName(kind, body.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seen[name] {
		s.seen[name] = true
		*list = append(*list, hoisted{name: name, body: body.Clone()})
	}
	return name
}

// AddClass adds a normalized rule
func (s *Sheet) AddClass(rule ClassRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = append(s.classes, rule)
}

// AddGlobals adds the entries of a resolved variant reference map owned by
// the rule with class owner
func (s *Sheet) AddGlobals(owner string, resolved *style.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resolved.Range(func(sel string, body any) bool {
		if m, ok := body.(*style.Map); ok {
			s.globals = append(s.globals, GlobalRule{Owner: owner, Selector: sel, Body: m})
		}
		return true
	})
}

// Classes returns the class rules in the order they were added
func (s *Sheet) Classes() []ClassRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ClassRule(nil), s.classes...)
}

// Globals returns the global rules in the order they were added
func (s *Sheet) Globals() []GlobalRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GlobalRule(nil), s.globals...)
}

// CSS renders the sheet: font faces, keyframes, class rules, then global
// rules
func (s *Sheet) CSS() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var w writer
	for _, ff := range byName(s.fontFaces) {
		w.fontFace(ff.name, ff.body)
	}
	for _, kf := range byName(s.keyframes) {
		w.keyframes(kf.name, kf.body)
	}
	for _, rule := range s.classes {
		w.block("."+rule.Class, rule.Result)
	}
	for _, g := range s.globals {
		w.block(strings.ReplaceAll(g.Selector, "&", "."+g.Owner), g.Body)
	}
	return w.String()
}

// byName orders hoisted bodies by name, since rules registering them may run
// in any order
func byName(list []hoisted) []hoisted {
	sorted := slices.Clone(list)
	slices.SortFunc(sorted, func(a, b hoisted) int {
		switch {
		case natural.Less(a.name, b.name):
			return -1
		case natural.Less(b.name, a.name):
			return 1
		}
		return 0
	})
	return sorted
}

// RuleCSS renders a single class rule and the global rules it owns
func (s *Sheet) RuleCSS(class string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var w writer
	for _, rule := range s.classes {
		if rule.Class == class {
			w.block("."+rule.Class, rule.Result)
		}
	}
	for _, g := range s.globals {
		if g.Owner == class {
			w.block(strings.ReplaceAll(g.Selector, "&", "."+g.Owner), g.Body)
		}
	}
	return w.String()
}
