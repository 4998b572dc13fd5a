// ABOUTME: Path traversal through nested collections
// ABOUTME: Resolves slash-separated keys such as "small/ones"

package catalog

import (
	"fmt"
	"strings"
)

// Split breaks a slash-separated path into its non-empty segments
func Split(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Walk resolves path from c. The empty path resolves to c itself.
func Walk(c Collection, path string) (Value, error) {
	return Lookup(c, Split(path)...)
}

// Lookup resolves a sequence of keys from c, descending one collection per
// key.
func Lookup(c Collection, keys ...string) (Value, error) {
	var cur Value = c
	for i, key := range keys {
		node, ok := cur.(Collection)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotCollection, strings.Join(keys[:i], "/"))
		}
		v, err := node.Get(key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.Join(keys[:i+1], "/"), err)
		}
		cur = v
	}
	return cur, nil
}

// WalkCollection resolves path and requires the result to be a Collection
func WalkCollection(c Collection, path string) (Collection, error) {
	v, err := Walk(c, path)
	if err != nil {
		return nil, err
	}
	node, ok := v.(Collection)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotCollection, strings.Trim(path, "/"))
	}
	return node, nil
}
