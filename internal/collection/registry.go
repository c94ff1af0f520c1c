package collection

import (
	"fmt"
	"sort"
	"sync"
)

// Registry owns the set of live collections, keyed by name. All mutation
// goes through Registry so collection creation/deletion is serialized with
// respect to lookups used by concurrent writers.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{collections: make(map[string]*Collection)}
}

// Create registers a new collection. It returns ErrAlreadyExists if name is
// already taken and ErrInvalidName if name fails canonicalization.
func (r *Registry) Create(name string, config Config, maxDimension int) (*Collection, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := config.Validate(maxDimension); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.collections[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyExists, name)
	}
	c := New(name, config)
	r.collections[name] = c
	return c, nil
}

// Delete removes a collection, reporting whether it existed.
func (r *Registry) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.collections[name]; !exists {
		return false
	}
	delete(r.collections, name)
	return true
}

// Get returns the named collection, or ErrNotFound.
func (r *Registry) Get(name string) (*Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c, nil
}

// Names returns every registered collection name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Restore installs a collection into the registry during recovery, bypassing
// the ErrAlreadyExists check since replay order already guarantees
// uniqueness.
func (r *Registry) Restore(name string, c *Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[name] = c
}
