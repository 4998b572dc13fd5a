// ABOUTME: Backing mappings for catalogs
// ABOUTME: Ordered eager maps and lazily constructed value maps

package catalog

import (
	"iter"
	"maps"
	"slices"

	"github.com/bluesky/catalog-server-from-scratch/pkg/metadata"
)

// Value is anything stored in a catalog: a nested Collection or an opaque
// leaf data source. Search only needs its metadata.
type Value interface {
	Metadata() metadata.Metadata
}

// Item is one (key, value) entry
type Item struct {
	Key   string
	Value Value
}

// Mapping is the read-only, ordered key/value store behind a Catalog. Keys
// must yield every key exactly once, in the same order on every call.
type Mapping interface {
	Get(key string) (Value, bool)
	Keys() iter.Seq[string]
	Len() int
}

// keyRanger is implemented by mappings that can jump straight to a
// positional range of keys instead of advancing an iterator.
type keyRanger interface {
	KeysRange(start, stop int) iter.Seq[string]
}

// OrderedMap is an immutable Mapping that keeps insertion order
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

// NewOrderedMap builds an OrderedMap from items. A repeated key keeps its
// first position and its last value.
func NewOrderedMap(items ...Item) *OrderedMap {
	m := &OrderedMap{
		keys:   make([]string, 0, len(items)),
		values: make(map[string]Value, len(items)),
	}
	for _, it := range items {
		if _, ok := m.values[it.Key]; !ok {
			m.keys = append(m.keys, it.Key)
		}
		m.values[it.Key] = it.Value
	}
	return m
}

// FromMap builds an OrderedMap from a Go map, ordering keys lexically
func FromMap(src map[string]Value) *OrderedMap {
	m := &OrderedMap{
		keys:   slices.Sorted(maps.Keys(src)),
		values: maps.Clone(src),
	}
	if m.values == nil {
		m.values = map[string]Value{}
	}
	return m
}

// Get implements Mapping
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys implements Mapping
func (m *OrderedMap) Keys() iter.Seq[string] {
	return slices.Values(m.keys)
}

// Len implements Mapping
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// KeysRange yields the keys at positions [start, stop)
func (m *OrderedMap) KeysRange(start, stop int) iter.Seq[string] {
	return slices.Values(clampRange(m.keys, start, stop))
}

// LazyMap is a Mapping whose values are built by a factory each time they
// are looked up. Listing keys never builds a value.
type LazyMap struct {
	keys    []string
	present map[string]struct{}
	build   func(key string) Value
}

// NewLazyMap creates a LazyMap over keys; duplicates after the first are
// dropped.
func NewLazyMap(keys []string, build func(key string) Value) *LazyMap {
	m := &LazyMap{
		keys:    make([]string, 0, len(keys)),
		present: make(map[string]struct{}, len(keys)),
		build:   build,
	}
	for _, k := range keys {
		if _, ok := m.present[k]; ok {
			continue
		}
		m.present[k] = struct{}{}
		m.keys = append(m.keys, k)
	}
	return m
}

// Get implements Mapping
func (m *LazyMap) Get(key string) (Value, bool) {
	if _, ok := m.present[key]; !ok {
		return nil, false
	}
	return m.build(key), true
}

// Keys implements Mapping
func (m *LazyMap) Keys() iter.Seq[string] {
	return slices.Values(m.keys)
}

// Len implements Mapping
func (m *LazyMap) Len() int {
	return len(m.keys)
}

// KeysRange yields the keys at positions [start, stop)
func (m *LazyMap) KeysRange(start, stop int) iter.Seq[string] {
	return slices.Values(clampRange(m.keys, start, stop))
}

func clampRange(keys []string, start, stop int) []string {
	stop = min(stop, len(keys))
	if start >= stop {
		return nil
	}
	return keys[start:stop]
}

var (
	_ Mapping   = (*OrderedMap)(nil)
	_ Mapping   = (*LazyMap)(nil)
	_ keyRanger = (*OrderedMap)(nil)
	_ keyRanger = (*LazyMap)(nil)
)
