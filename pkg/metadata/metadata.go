// ABOUTME: Immutable metadata attached to catalogs and data sources
// ABOUTME: Nested mappings, sequences and scalars exposed as copy-on-read views

package metadata

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Metadata is a read-only view of a free-form metadata tree. The tree is
// copied on construction and every accessor hands out copies, so nothing a
// caller holds can change what later reads observe.
//
// The zero value is an empty Metadata.
type Metadata struct {
	tree map[string]any
}

// New deep-copies tree into a Metadata. Every nested map is normalized to
// map[string]any and every slice or array to []any, so typed containers
// such as []int or map[string][]string are copied too.
func New(tree map[string]any) Metadata {
	if len(tree) == 0 {
		return Metadata{}
	}
	return Metadata{tree: copyMap(tree)}
}

// Empty returns metadata with no keys
func Empty() Metadata {
	return Metadata{}
}

// Len returns the number of top-level keys
func (m Metadata) Len() int {
	return len(m.tree)
}

// IsEmpty reports whether there are no top-level keys
func (m Metadata) IsEmpty() bool {
	return len(m.tree) == 0
}

// Keys returns the top-level keys in sorted order
func (m Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m.tree))
}

// Has reports whether key is present at the top level
func (m Metadata) Has(key string) bool {
	_, ok := m.tree[key]
	return ok
}

// Get returns a copy of the value stored under key
func (m Metadata) Get(key string) (any, bool) {
	v, ok := m.tree[key]
	if !ok {
		return nil, false
	}
	return copyValue(v), true
}

// GetString returns the value under key if it is a string
func (m Metadata) GetString(key string) (string, bool) {
	s, ok := m.tree[key].(string)
	return s, ok
}

// Sub returns the nested mapping under key as Metadata
func (m Metadata) Sub(key string) (Metadata, bool) {
	sub, ok := m.tree[key].(map[string]any)
	if !ok {
		return Metadata{}, false
	}
	return Metadata{tree: sub}, true
}

// Lookup follows a path of keys through nested mappings
func (m Metadata) Lookup(path ...string) (any, bool) {
	var cur any = m.tree
	for _, key := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = node[key]; !ok {
			return nil, false
		}
	}
	return copyValue(cur), true
}

// Map returns a deep copy of the whole tree
func (m Metadata) Map() map[string]any {
	if m.tree == nil {
		return map[string]any{}
	}
	return copyMap(m.tree)
}

// Equal reports whether both trees hold the same keys and values
func (m Metadata) Equal(other Metadata) bool {
	return reflect.DeepEqual(m.Map(), other.Map())
}

// MarshalJSON encodes the tree as a JSON object
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

// UnmarshalJSON replaces the receiver with the decoded tree
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("metadata: decode: %w", err)
	}
	*m = New(tree)
	return nil
}

func copyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

// copyValue deep-copies v into one of the two canonical container shapes.
// Maps become map[string]any and slices and arrays become []any, whatever
// their element types. Map keys that are not strings are formatted with
// fmt. []byte is cloned as is. Anything else is a scalar and kept.
func copyValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64, int, int64:
		return t
	case map[string]any:
		return copyMap(t)
	case []any:
		return copySlice(reflect.ValueOf(t))
	case []byte:
		return slices.Clone(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		dst := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			dst[mapKey(it.Key())] = copyValue(it.Value().Interface())
		}
		return dst
	case reflect.Slice:
		if rv.IsNil() {
			return []any(nil)
		}
		return copySlice(rv)
	case reflect.Array:
		return copySlice(rv)
	default:
		return v
	}
}

func copySlice(rv reflect.Value) []any {
	dst := make([]any, rv.Len())
	for i := range dst {
		dst[i] = copyValue(rv.Index(i).Interface())
	}
	return dst
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
