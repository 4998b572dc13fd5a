// ABOUTME: Query translation registry mapping query shapes to handlers
// ABOUTME: Open single dispatch from a query's type to its filtering logic

package catalog

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

// Handler filters a collection according to a query of the shape it was
// registered for.
type Handler func(q query.Query, c Collection) (Collection, error)

// Observer is notified after every dispatch. matched is the length of the
// result, or 0 when err is set.
type Observer interface {
	ObserveSearch(queryType string, duration time.Duration, matched int, err error)
}

// Registry maps query shapes to handlers. Registration normally completes
// at start-up; the lock only makes late registration well defined.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]Handler
	deferred  map[string]func() Handler
	observers []Observer
}

// DefaultRegistry is shared by every Catalog built without WithRegistry
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		deferred: make(map[string]func() Handler),
	}
}

// Register installs h for shape, replacing any previous handler
func (r *Registry) Register(shape string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.deferred, shape)
	r.handlers[shape] = h
}

// RegisterLazy installs a factory that builds the handler for shape on
// first dispatch, replacing any previous handler.
func (r *Registry) RegisterLazy(shape string, factory func() Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, shape)
	r.deferred[shape] = factory
}

// Observe adds an observer notified after each dispatch
func (r *Registry) Observe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Shapes returns the registered shapes, resolved or not, in sorted order
func (r *Registry) Shapes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shapes := slices.Collect(maps.Keys(r.handlers))
	for shape := range r.deferred {
		shapes = append(shapes, shape)
	}
	slices.Sort(shapes)
	return shapes
}

// Lookup returns the handler for shape, resolving a deferred factory
func (r *Registry) Lookup(shape string) (Handler, bool) {
	r.mu.RLock()
	h, ok := r.handlers[shape]
	r.mu.RUnlock()
	if ok {
		return h, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have resolved it meanwhile
	if h, ok := r.handlers[shape]; ok {
		return h, true
	}
	factory, ok := r.deferred[shape]
	if !ok {
		return nil, false
	}
	h = factory()
	delete(r.deferred, shape)
	r.handlers[shape] = h
	return h, true
}

// Dispatch runs the handler registered for q's shape against c and returns
// its result unchanged.
func (r *Registry) Dispatch(q query.Query, c Collection) (Collection, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil query", ErrUnsupportedQuery)
	}
	shape := q.QueryType()
	start := time.Now()

	var (
		result Collection
		err    error
	)
	if h, ok := r.Lookup(shape); ok {
		result, err = h(q, c)
	} else {
		err = fmt.Errorf("%w: no handler for %q", ErrUnsupportedQuery, shape)
	}

	matched := 0
	if err == nil && result != nil {
		matched = result.Len()
	}
	r.notify(shape, time.Since(start), matched, err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Registry) notify(shape string, d time.Duration, matched int, err error) {
	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()
	for _, o := range observers {
		o.ObserveSearch(shape, d, matched, err)
	}
}
