// ABOUTME: Traversal of string leaves in a metadata tree
// ABOUTME: Used by full-text search to collect searchable words

package metadata

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Strings yields every string leaf reachable from the top level. Mapping
// values are walked recursively (keys in sorted order), string elements of
// sequences are taken, and any other shape is skipped.
func (m Metadata) Strings() iter.Seq[string] {
	return func(yield func(string) bool) {
		walkStrings(m.tree, yield)
	}
}

// Words yields the lower-cased, whitespace-separated words of every string
// leaf, in walk order. Words may repeat.
func (m Metadata) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for s := range m.Strings() {
			for _, w := range strings.Fields(strings.ToLower(s)) {
				if !yield(w) {
					return
				}
			}
		}
	}
}

func walkStrings(v any, yield func(string) bool) bool {
	switch t := v.(type) {
	case string:
		return yield(t)
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if !walkStrings(t[k], yield) {
				return false
			}
		}
	case []any:
		// Only direct string elements of a sequence count.
		for _, e := range t {
			if s, ok := e.(string); ok {
				if !yield(s) {
					return false
				}
			}
		}
	}
	return true
}
