// Package registry provides the named, concurrency-safe maps behind a
// Handlebars instance's helpers, hooks, partials and decorators.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned by Get for unknown names.
	ErrNotFound = errors.New("registry: not found")
	// ErrDuplicate is returned by Register when the name is taken.
	ErrDuplicate = errors.New("registry: already registered")
)

// Registry stores values of one kind by name. The zero value is not usable;
// call New.
type Registry[T any] struct {
	kind  string
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty registry. kind names the stored values in errors.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

// Register adds item under name. Duplicate names return ErrDuplicate.
func (r *Registry[T]) Register(name string, item T) error {
	if name == "" {
		return fmt.Errorf("registry: %s name is required", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return fmt.Errorf("%w: %s %q", ErrDuplicate, r.kind, name)
	}
	r.items[name] = item
	return nil
}

// Set stores item under name, replacing any previous entry.
func (r *Registry[T]) Set(name string, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[name] = item
}

// Delete removes name and reports whether it was present.
func (r *Registry[T]) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[name]
	delete(r.items, name)
	return ok
}

// Lookup retrieves an item by name.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	return item, ok
}

// Get is Lookup with an ErrNotFound error for unknown names.
func (r *Registry[T]) Get(name string) (T, error) {
	item, ok := r.Lookup(name)
	if !ok {
		return item, fmt.Errorf("%w: %s %q", ErrNotFound, r.kind, name)
	}
	return item, nil
}

// MustGet panics if the item is missing.
func (r *Registry[T]) MustGet(name string) T {
	item, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return item
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// List returns the registered names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the current entries.
func (r *Registry[T]) Snapshot() map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]T, len(r.items))
	for name, item := range r.items {
		out[name] = item
	}
	return out
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
