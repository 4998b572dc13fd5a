// ABOUTME: Built-in full-text search over entry metadata
// ABOUTME: Keeps entries whose metadata words intersect the query words

package catalog

import (
	"fmt"
	"strings"

	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

func init() {
	DefaultRegistry.RegisterLazy(query.TextType, func() Handler { return FullTextSearch })
}

// FullTextSearch keeps every entry of c whose metadata contains at least
// one word of the query text. Matching is case-insensitive on whitespace
// separated words. The result has no metadata; kept values are shared with
// c, not copied.
func FullTextSearch(q query.Query, c Collection) (Collection, error) {
	var text string
	switch t := q.(type) {
	case query.Text:
		text = t.Text
	case *query.Text:
		text = t.Text
	default:
		return nil, fmt.Errorf("%w: full-text search cannot handle %T", ErrUnsupportedQuery, q)
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[w] = struct{}{}
	}

	var kept []Item
	for key, value := range c.Items() {
		if value != nil && anyWord(value, words) {
			kept = append(kept, Item{Key: key, Value: value})
		}
	}
	return c.Derive(NewOrderedMap(kept...)), nil
}

func anyWord(v Value, words map[string]struct{}) bool {
	if len(words) == 0 {
		return false
	}
	for w := range v.Metadata().Words() {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}
