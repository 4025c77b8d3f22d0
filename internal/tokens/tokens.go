// Package tokens turns design-token files into property references.
//
// Each token becomes a reference named by its hyphenated token name, so a
// token at color.brand.primary is used in a style value as
// "@color-brand-primary". Token aliases ("{color.base}", or "#/color/base"
// JSON pointers in 2025.10 files) are rewritten into "@color-base" references
// and resolved by the normalizer like any other reference chain.
package tokens

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	asimonimParser "bennypowers.dev/asimonim/parser"
	"bennypowers.dev/asimonim/schema"
	"bennypowers.dev/asimonim/validator"
	"bennypowers.dev/stylenorm/internal/log"
	"go.uber.org/multierr"
)

// curlyAliasPattern matches a curly brace token alias: {token.reference.path}
var curlyAliasPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Options control token parsing
type Options struct {
	// GroupMarkers are token names that are both a token and a group
	GroupMarkers []string
}

// Source records where a reference came from
type Source struct {
	File string
	Type string
}

// Set is the property references loaded from token files
type Set struct {
	refs    map[string]any
	sources map[string]Source
}

// NewSet creates an empty Set
func NewSet() *Set {
	return &Set{refs: map[string]any{}, sources: map[string]Source{}}
}

// References returns a copy of the reference map
func (s *Set) References() map[string]any {
	return maps.Clone(s.refs)
}

// Source returns where the reference name was defined
func (s *Set) Source(name string) (Source, bool) {
	src, ok := s.sources[name]
	return src, ok
}

// Len returns the number of references
func (s *Set) Len() int {
	return len(s.refs)
}

// Load parses every file in paths into one Set. Files are merged in order;
// a later definition of a name replaces an earlier one. Failures are
// collected so one broken file does not hide problems in the others.
func Load(paths []string, opts Options) (*Set, error) {
	set := NewSet()
	var errs error
	for _, p := range paths {
		if err := set.LoadFile(p, opts); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return set, errs
}

// LoadFile parses one JSON or YAML token file into s
func (s *Set) LoadFile(filename string, opts Options) error {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("unsupported token file type %s: %s", ext, filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read token file %s: %w", filename, err)
	}
	n, err := s.Parse(data, filename, opts)
	if err != nil {
		return fmt.Errorf("failed to parse token file %s: %w", filename, err)
	}
	log.Debug("Loaded %d tokens from %s", n, filename)
	return nil
}

// Parse adds the tokens in data to s and returns how many were added.
// filename is only used for source tracking and diagnostics.
func (s *Set) Parse(data []byte, filename string, opts Options) (int, error) {
	parsed, err := asimonimParser.NewJSONParser().Parse(data, asimonimParser.Options{
		GroupMarkers: opts.GroupMarkers,
	})
	if err != nil {
		return 0, err
	}

	version := schema.Draft
	for _, t := range parsed {
		if t.SchemaVersion != schema.Unknown {
			version = t.SchemaVersion
			break
		}
	}
	for _, ve := range validator.ValidateConsistencyWithPath(data, version, filename) {
		log.Warn("Schema validation: %s", ve.Error())
	}

	for _, t := range parsed {
		s.refs[t.Name] = ReferenceValue(t.Value, t.SchemaVersion)
		s.sources[t.Name] = Source{File: filename, Type: t.Type}
	}
	return len(parsed), nil
}

// ReferenceValue rewrites token aliases in a token value into property
// references: "{color.base}" → "@color-base", "1px solid {color.base}" →
// "1px solid @color-base", and for 2025.10 tokens "#/color/base" →
// "@color-base".
func ReferenceValue(value string, version schema.Version) string {
	if version == schema.V2025_10 && strings.HasPrefix(value, "#/") {
		return "@" + strings.ReplaceAll(strings.TrimPrefix(value, "#/"), "/", "-")
	}
	return curlyAliasPattern.ReplaceAllStringFunc(value, func(m string) string {
		return "@" + strings.ReplaceAll(strings.Trim(m, "{}"), ".", "-")
	})
}

// Merge returns base overlaid with overrides: document references win over
// token references of the same name
func Merge(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	maps.Copy(out, base)
	maps.Copy(out, overrides)
	return out
}
