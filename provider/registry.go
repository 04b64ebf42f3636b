package provider

import (
	"fmt"
	"sort"
	"sync"
)

// ErrNotRegistered is returned for names with no registered factory.
type ErrNotRegistered struct{ Name string }

func (e *ErrNotRegistered) Error() string {
	return fmt.Sprintf("provider factory %q not registered", e.Name)
}

// Registry manages named provider factories and lazily built instances.
//
// Construction for a name is serialized by that name's lock, so concurrent
// first calls build at most one instance while other names proceed. A failed
// construction is not cached.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
	instances map[string]T
	locks     map[string]*sync.Mutex
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{
		factories: make(map[string]Factory[T]),
		instances: make(map[string]T),
		locks:     make(map[string]*sync.Mutex),
	}
}

// RegisterFactory registers a named factory for creating providers.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	if _, ok := r.locks[name]; !ok {
		r.locks[name] = &sync.Mutex{}
	}
}

// GetOrInit returns the cached instance for name, building it on first use.
func (r *Registry[T]) GetOrInit(name string) (T, error) {
	var zero T

	r.mu.RLock()
	inst, ok := r.instances[name]
	factory, registered := r.factories[name]
	lock := r.locks[name]
	r.mu.RUnlock()
	if ok {
		return inst, nil
	}
	if !registered {
		return zero, &ErrNotRegistered{Name: name}
	}

	lock.Lock()
	defer lock.Unlock()

	// Another caller may have finished while we waited.
	r.mu.RLock()
	inst, ok = r.instances[name]
	r.mu.RUnlock()
	if ok {
		return inst, nil
	}

	inst, err := factory()
	if err != nil {
		return zero, err
	}

	r.mu.Lock()
	r.instances[name] = inst
	r.mu.Unlock()
	return inst, nil
}

// Get returns a cached provider instance by name without building it.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[name]
	return inst, ok
}

// List returns sorted names of all registered factories.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.factories)
}

// ListInitialized returns sorted names of the instances built so far.
func (r *Registry[T]) ListInitialized() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.instances)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
