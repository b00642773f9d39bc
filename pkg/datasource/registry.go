package datasource

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores data sources by name so records can be mapped back to the
// source they originate from. Build it at bootstrap and inject it.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]DataSource
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]DataSource),
	}
}

// Register adds a data source by its Name(). Duplicate names return an error.
func (r *Registry) Register(source DataSource) error {
	if source == nil {
		return fmt.Errorf("datasource: source is required")
	}
	name := source.Name()
	if name == "" {
		return fmt.Errorf("datasource: source name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("datasource: source %q already registered", name)
	}
	r.sources[name] = source
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(source DataSource) {
	if err := r.Register(source); err != nil {
		panic(err)
	}
}

// Get retrieves a data source by name.
func (r *Registry) Get(name string) (DataSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("datasource: source %q not found", name)
	}
	return source, nil
}

// Names returns a sorted list of registered source names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a source is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sources[name]
	return ok
}
