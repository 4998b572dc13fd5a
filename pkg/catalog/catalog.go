// ABOUTME: Immutable, ordered, hierarchical catalog of named values
// ABOUTME: Supports lazy positional views and pluggable search

package catalog

import (
	"fmt"
	"iter"
	"strings"

	"github.com/bluesky/catalog-server-from-scratch/pkg/interval"
	"github.com/bluesky/catalog-server-from-scratch/pkg/metadata"
	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

// Collection is the capability set every catalog-like value provides.
// Values may themselves be Collections, forming a tree.
type Collection interface {
	Value

	// Get returns the value under key, or ErrKeyNotFound
	Get(key string) (Value, error)
	Keys() iter.Seq[string]
	Values() iter.Seq[Value]
	Items() iter.Seq2[string, Value]
	Len() int

	// ItemByIndex returns the i-th entry in iteration order, or
	// ErrIndexOutOfRange
	ItemByIndex(i int) (Item, error)

	// KeysRange and ItemsRange yield only the entries at positions inside
	// iv. Views use them so traversal cost follows the window size.
	KeysRange(iv interval.Interval) iter.Seq[string]
	ItemsRange(iv interval.Interval) iter.Seq2[string, Value]

	KeysIndexer() KeysView
	ValuesIndexer() ValuesView
	ItemsIndexer() ItemsView

	// Search returns a new Collection holding the entries q selects
	Search(q query.Query) (Collection, error)

	// Derive returns a fresh Collection of the same concrete kind backed by
	// m, with empty metadata. Search handlers use it to build results.
	Derive(m Mapping) Collection
}

// Catalog is the in-memory Collection. Its key set, order and metadata are
// fixed at construction.
type Catalog struct {
	mapping  Mapping
	metadata metadata.Metadata
	registry *Registry
}

// Option configures a Catalog
type Option func(*Catalog)

// WithMetadata attaches a copy of md to the catalog
func WithMetadata(md map[string]any) Option {
	return func(c *Catalog) {
		c.metadata = metadata.New(md)
	}
}

// WithRegistry makes Search dispatch through r instead of DefaultRegistry
func WithRegistry(r *Registry) Option {
	return func(c *Catalog) {
		c.registry = r
	}
}

// New creates a Catalog over m
func New(m Mapping, opts ...Option) *Catalog {
	if m == nil {
		m = NewOrderedMap()
	}
	c := &Catalog{mapping: m}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromItems creates a Catalog holding items in order
func FromItems(items []Item, opts ...Option) *Catalog {
	return New(NewOrderedMap(items...), opts...)
}

// Metadata implements Value
func (c *Catalog) Metadata() metadata.Metadata {
	return c.metadata
}

func (c *Catalog) String() string {
	return fmt.Sprintf("<Catalog({%s})>", strings.Join(c.KeysIndexer().Collect(), ", "))
}

// Get implements Collection
func (c *Catalog) Get(key string) (Value, error) {
	v, ok := c.mapping.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return v, nil
}

// Keys implements Collection
func (c *Catalog) Keys() iter.Seq[string] {
	return c.mapping.Keys()
}

// Values implements Collection. Each value is looked up as its key is
// reached, so a lazy mapping only builds what the caller consumes.
func (c *Catalog) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, v := range c.Items() {
			if !yield(v) {
				return
			}
		}
	}
}

// Items implements Collection
func (c *Catalog) Items() iter.Seq2[string, Value] {
	return c.ItemsRange(interval.Unbounded(0))
}

// Len implements Collection
func (c *Catalog) Len() int {
	return c.mapping.Len()
}

// ItemByIndex implements Collection. It advances a fresh key iterator to
// position i and looks up only that key.
func (c *Catalog) ItemByIndex(i int) (Item, error) {
	n := c.Len()
	if i < 0 || i >= n {
		return Item{}, fmt.Errorf("%w: index %d for length %d", ErrIndexOutOfRange, i, n)
	}
	for key := range c.KeysRange(interval.New(i, i+1)) {
		v, err := c.Get(key)
		if err != nil {
			return Item{}, err
		}
		return Item{Key: key, Value: v}, nil
	}
	return Item{}, fmt.Errorf("%w: index %d for length %d", ErrIndexOutOfRange, i, n)
}

// KeysRange implements Collection
func (c *Catalog) KeysRange(iv interval.Interval) iter.Seq[string] {
	end := iv.End(c.Len())
	if r, ok := c.mapping.(keyRanger); ok {
		return r.KeysRange(iv.Start, end)
	}
	return func(yield func(string) bool) {
		if iv.Start >= end {
			return
		}
		pos := 0
		for key := range c.mapping.Keys() {
			if pos >= end {
				return
			}
			if pos >= iv.Start && !yield(key) {
				return
			}
			pos++
		}
	}
}

// ItemsRange implements Collection
func (c *Catalog) ItemsRange(iv interval.Interval) iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for key := range c.KeysRange(iv) {
			v, ok := c.mapping.Get(key)
			if !ok {
				continue
			}
			if !yield(key, v) {
				return
			}
		}
	}
}

// KeysIndexer implements Collection
func (c *Catalog) KeysIndexer() KeysView {
	return KeysView{newWindow(c)}
}

// ValuesIndexer implements Collection
func (c *Catalog) ValuesIndexer() ValuesView {
	return ValuesView{newWindow(c)}
}

// ItemsIndexer implements Collection
func (c *Catalog) ItemsIndexer() ItemsView {
	return ItemsView{newWindow(c)}
}

// Search implements Collection
func (c *Catalog) Search(q query.Query) (Collection, error) {
	return c.Registry().Dispatch(q, c)
}

// Derive implements Collection. The result shares the receiver's registry.
func (c *Catalog) Derive(m Mapping) Collection {
	return New(m, WithRegistry(c.registry))
}

// Registry returns the registry Search dispatches through
func (c *Catalog) Registry() *Registry {
	if c.registry == nil {
		return DefaultRegistry
	}
	return c.registry
}

var _ Collection = (*Catalog)(nil)
