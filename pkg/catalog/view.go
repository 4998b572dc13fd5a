// ABOUTME: Lazy, chainable key/value/item views over a collection
// ABOUTME: Slicing composes intervals; nothing is read until indexed or iterated

package catalog

import (
	"fmt"
	"iter"
	"slices"

	"github.com/bluesky/catalog-server-from-scratch/pkg/interval"
)

// window is the state shared by all three views: a root collection and the
// composed interval over it. Slicing a view never nests windows; the new
// interval is folded into the old one and the root stays the same.
type window struct {
	root Collection
	iv   interval.Interval
}

func newWindow(root Collection) window {
	return window{root: root, iv: interval.Unbounded(0)}
}

// Len returns the number of entries the window covers
func (w window) Len() int {
	return w.iv.Len(w.root.Len())
}

// Interval returns the window's position over the root collection
func (w window) Interval() interval.Interval {
	return w.iv
}

func (w window) slice(s interval.Slice) (window, error) {
	sub, err := interval.SliceToInterval(s)
	if err != nil {
		return window{}, err
	}
	return window{root: w.root, iv: interval.Compose(w.iv, sub)}, nil
}

func (w window) item(i int) (Item, error) {
	if n := w.Len(); i < 0 || i >= n {
		return Item{}, fmt.Errorf("%w: index %d for length %d", ErrIndexOutOfRange, i, n)
	}
	return w.root.ItemByIndex(w.iv.Start + i)
}

// key resolves position i without looking up its value
func (w window) key(i int) (string, error) {
	if n := w.Len(); i < 0 || i >= n {
		return "", fmt.Errorf("%w: index %d for length %d", ErrIndexOutOfRange, i, n)
	}
	pos := w.iv.Start + i
	for key := range w.root.KeysRange(interval.New(pos, pos+1)) {
		return key, nil
	}
	return "", fmt.Errorf("%w: index %d for length %d", ErrIndexOutOfRange, i, w.Len())
}

func invalidIndex(index any) error {
	return fmt.Errorf("%w: got %T", ErrInvalidIndexType, index)
}

// KeysView is a lazy sequence of a collection's keys
type KeysView struct {
	window
}

// Index returns the i-th key of the view
func (v KeysView) Index(i int) (string, error) {
	return v.key(i)
}

// Slice returns the sub-view s, expressed in this view's positions
func (v KeysView) Slice(s interval.Slice) (KeysView, error) {
	w, err := v.slice(s)
	if err != nil {
		return KeysView{}, err
	}
	return KeysView{w}, nil
}

// At indexes the view with an int (returning a string) or an
// interval.Slice (returning a KeysView).
func (v KeysView) At(index any) (any, error) {
	switch idx := index.(type) {
	case int:
		return v.Index(idx)
	case interval.Slice:
		return v.Slice(idx)
	default:
		return nil, invalidIndex(index)
	}
}

// All yields the keys in the window
func (v KeysView) All() iter.Seq[string] {
	return v.root.KeysRange(v.iv)
}

// Collect materializes the keys in the window
func (v KeysView) Collect() []string {
	return slices.Collect(v.All())
}

func (v KeysView) String() string {
	return fmt.Sprintf("<KeysView(%q)>", v.Collect())
}

// ValuesView is a lazy sequence of a collection's values
type ValuesView struct {
	window
}

// Index returns the i-th value of the view
func (v ValuesView) Index(i int) (Value, error) {
	it, err := v.item(i)
	if err != nil {
		return nil, err
	}
	return it.Value, nil
}

// Slice returns the sub-view s, expressed in this view's positions
func (v ValuesView) Slice(s interval.Slice) (ValuesView, error) {
	w, err := v.slice(s)
	if err != nil {
		return ValuesView{}, err
	}
	return ValuesView{w}, nil
}

// At indexes the view with an int (returning a Value) or an
// interval.Slice (returning a ValuesView).
func (v ValuesView) At(index any) (any, error) {
	switch idx := index.(type) {
	case int:
		return v.Index(idx)
	case interval.Slice:
		return v.Slice(idx)
	default:
		return nil, invalidIndex(index)
	}
}

// All yields the values in the window
func (v ValuesView) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, val := range v.root.ItemsRange(v.iv) {
			if !yield(val) {
				return
			}
		}
	}
}

// Collect materializes the values in the window
func (v ValuesView) Collect() []Value {
	return slices.Collect(v.All())
}

func (v ValuesView) String() string {
	return fmt.Sprintf("<ValuesView(%v)>", v.Collect())
}

// ItemsView is a lazy sequence of a collection's (key, value) entries
type ItemsView struct {
	window
}

// Index returns the i-th entry of the view
func (v ItemsView) Index(i int) (Item, error) {
	return v.item(i)
}

// Slice returns the sub-view s, expressed in this view's positions
func (v ItemsView) Slice(s interval.Slice) (ItemsView, error) {
	w, err := v.slice(s)
	if err != nil {
		return ItemsView{}, err
	}
	return ItemsView{w}, nil
}

// At indexes the view with an int (returning an Item) or an
// interval.Slice (returning an ItemsView).
func (v ItemsView) At(index any) (any, error) {
	switch idx := index.(type) {
	case int:
		return v.Index(idx)
	case interval.Slice:
		return v.Slice(idx)
	default:
		return nil, invalidIndex(index)
	}
}

// All yields the entries in the window
func (v ItemsView) All() iter.Seq2[string, Value] {
	return v.root.ItemsRange(v.iv)
}

// Collect materializes the entries in the window
func (v ItemsView) Collect() []Item {
	var items []Item
	for key, val := range v.All() {
		items = append(items, Item{Key: key, Value: val})
	}
	return items
}

func (v ItemsView) String() string {
	return fmt.Sprintf("<ItemsView(%v)>", v.Collect())
}
