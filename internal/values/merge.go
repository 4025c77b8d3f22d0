package values

import "strings"

// Separators used by merge-suffixed keys
const (
	CommaSeparator = ", "
	SpaceSeparator = " "
)

// Merge combines the items of a merge list.
//
// Without fallback groups (nested sequences) the items are joined with sep
// into one string. With fallback groups the result is a []any holding one
// joined string per combination: every choice of one entry from each group,
// plain items shared by all. Combinations are enumerated depth-first over the
// positions, each group in its own order, so ["a", ["b", "c"], ["d", "e"]]
// yields "a b d", "a b e", "a c d", "a c e".
func Merge(items []any, sep string) any {
	positions := make([][]string, len(items))
	grouped := false
	for i, item := range items {
		if group, ok := item.([]any); ok {
			grouped = true
			positions[i] = make([]string, len(group))
			for j, choice := range group {
				positions[i][j] = Stringify(choice)
			}
			continue
		}
		positions[i] = []string{Stringify(item)}
	}

	if !grouped {
		parts := make([]string, len(positions))
		for i, p := range positions {
			parts[i] = p[0]
		}
		return strings.Join(parts, sep)
	}

	var out []any
	picked := make([]string, len(positions))
	var walk func(pos int)
	walk = func(pos int) {
		if pos == len(positions) {
			out = append(out, strings.Join(picked, sep))
			return
		}
		for _, choice := range positions[pos] {
			picked[pos] = choice
			walk(pos + 1)
		}
	}
	walk(0)

	if out == nil {
		out = []any{}
	}
	return out
}
