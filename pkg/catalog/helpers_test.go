// ABOUTME: Shared fixtures for catalog tests
// ABOUTME: Leaf values and a lazy mapping that counts value construction

package catalog

import (
	"fmt"
	"iter"
	"sync"
	"testing"

	"github.com/bluesky/catalog-server-from-scratch/pkg/metadata"
)

type leaf struct {
	name string
	md   metadata.Metadata
}

func (l *leaf) Metadata() metadata.Metadata { return l.md }

func newLeaf(name string, md map[string]any) *leaf {
	return &leaf{name: name, md: metadata.New(md)}
}

// countingMap builds leaves on demand and records how often each key was
// built.
type countingMap struct {
	*LazyMap
	mu     sync.Mutex
	builds map[string]int
}

func newCountingMap(n int) *countingMap {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%02d", i)
	}
	cm := &countingMap{builds: map[string]int{}}
	cm.LazyMap = NewLazyMap(keys, func(key string) Value {
		cm.mu.Lock()
		cm.builds[key]++
		cm.mu.Unlock()
		return newLeaf(key, nil)
	})
	return cm
}

func (cm *countingMap) total() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	n := 0
	for _, c := range cm.builds {
		n += c
	}
	return n
}

func (cm *countingMap) count(key string) int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.builds[key]
}

// plainMapping hides the KeysRange fast path so the iterator-advancing
// fallback is exercised.
type plainMapping struct {
	m *OrderedMap
}

func (p plainMapping) Get(key string) (Value, bool) { return p.m.Get(key) }
func (p plainMapping) Keys() iter.Seq[string]       { return p.m.Keys() }
func (p plainMapping) Len() int                     { return p.m.Len() }

func letters(t *testing.T, keys ...string) *Catalog {
	t.Helper()
	items := make([]Item, len(keys))
	for i, k := range keys {
		items[i] = Item{Key: k, Value: newLeaf(k, nil)}
	}
	return FromItems(items)
}
