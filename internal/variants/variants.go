// Package variants rewrites variant placeholders once sibling identifiers
// are known.
//
// Rules in a batch can style each other through selectors such as
// "%primary &:hover" before "%primary" has an identifier. Normalization
// collects those declarations in a variant reference map; after the caller
// has assigned identifiers to every rule of the batch, Resolve rewrites the
// map's keys into real selectors.
package variants

import (
	"bennypowers.dev/stylenorm/internal/path"
	"bennypowers.dev/stylenorm/internal/style"
)

// Placeholders returns the placeholder tokens of selector in order, e.g.
// ["%primary", "%size-lg"]
func Placeholders(selector string) []string {
	return style.Placeholders(selector)
}

// Resolve rewrites every placeholder token in the keys of ref using
// variantMap, whose keys include the "%". A token with no entry fails with
// VariantReferenceNotFoundError and leaves ref untouched. Keys that resolve to
// the same selector are deep-merged in order of appearance. ref is rewritten
// in place and returned.
func Resolve(ref *style.Map, variantMap map[string]string) (*style.Map, error) {
	type rewrite struct {
		selector string
		body     any
	}

	rewrites := make([]rewrite, 0, ref.Len())
	var err error
	ref.Range(func(key string, body any) bool {
		for _, token := range Placeholders(key) {
			if _, ok := variantMap[token]; !ok {
				err = style.NewVariantReferenceNotFoundError(token, key)
				return false
			}
		}
		resolved := style.ReplacePlaceholders(key, func(token string) string {
			return variantMap[token]
		})
		rewrites = append(rewrites, rewrite{selector: resolved, body: body})
		return true
	})
	if err != nil {
		return nil, err
	}

	out := style.NewMap()
	for _, rw := range rewrites {
		existing, seen := out.Get(rw.selector)
		current, isMap := existing.(*style.Map)
		incoming, incomingMap := rw.body.(*style.Map)
		if seen && isMap && incomingMap {
			path.DeepMerge(current, incoming)
			continue
		}
		out.Set(rw.selector, rw.body)
	}

	ref.Replace(out)
	return ref, nil
}

// Selectors returns the placeholder tokens used anywhere in ref's keys,
// deduplicated in order of first appearance
func Selectors(ref *style.Map) []string {
	var tokens []string
	seen := map[string]bool{}
	ref.Range(func(key string, _ any) bool {
		for _, token := range Placeholders(key) {
			if !seen[token] {
				seen[token] = true
				tokens = append(tokens, token)
			}
		}
		return true
	})
	return tokens
}
