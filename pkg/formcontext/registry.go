package formcontext

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/goliatone/go-viewkit/pkg/datasource"
	"github.com/goliatone/go-viewkit/pkg/entity"
)

// ErrInvalidContext is returned when no factory is registered for an item's type.
var ErrInvalidContext = errors.New("formcontext: no context registered for item type")

// Factory builds a Context for an item of the registered type.
type Factory func(item any) (Context, error)

// Registry maps concrete item types to context factories. Lookups use the
// exact dynamic type of the item; interfaces are not matched. Build it at
// bootstrap and inject it.
type Registry struct {
	mu        sync.RWMutex
	factories map[reflect.Type]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[reflect.Type]Factory)}
}

// Register maps the dynamic type of sample to factory, replacing any
// previous mapping.
func (r *Registry) Register(sample any, factory Factory) error {
	if sample == nil {
		return fmt.Errorf("formcontext: sample item is required")
	}
	if factory == nil {
		return fmt.Errorf("formcontext: factory for %T is required", sample)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[reflect.TypeOf(sample)] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(sample any, factory Factory) {
	if err := r.Register(sample, factory); err != nil {
		panic(err)
	}
}

// Has reports whether a factory exists for the dynamic type of item.
func (r *Registry) Has(item any) bool {
	if item == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[reflect.TypeOf(item)]
	return ok
}

// For builds the context for item. A nil item yields NullContext.
func (r *Registry) For(item any) (Context, error) {
	if item == nil {
		return NullContext, nil
	}
	r.mu.RLock()
	factory, ok := r.factories[reflect.TypeOf(item)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidContext, item)
	}
	return factory(item)
}

// EntityFactory builds EntityContexts for entity.Record items, resolving the
// root data source by the record's Source() name.
func EntityFactory(sources *datasource.Registry, opts ...Option) Factory {
	return func(item any) (Context, error) {
		record, ok := item.(entity.Record)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a record", ErrInvalidContext, item)
		}
		var root datasource.DataSource
		if sources != nil && record.Source() != "" {
			source, err := sources.Get(record.Source())
			if err != nil {
				return nil, fmt.Errorf("formcontext: %w", err)
			}
			root = source
		}
		return NewEntityContext(record, root, opts...), nil
	}
}

// MapFactory builds EntityContexts for plain map[string]any items bound to
// the named data source. An empty source name produces a value-only context.
func MapFactory(sources *datasource.Registry, source string, opts ...Option) Factory {
	records := EntityFactory(sources, opts...)
	return func(item any) (Context, error) {
		values, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a map", ErrInvalidContext, item)
		}
		return records(entity.New(source, values))
	}
}
