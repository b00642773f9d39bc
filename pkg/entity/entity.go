package entity

import (
	"sort"
	"strings"
	"sync"
)

// Record is a data record indexable by field name. Nested values may be other
// records, maps, or slices of either. Source names the data source the record
// originates from.
type Record interface {
	Get(field string) (any, bool)
	Source() string
}

// Entity is a map-backed Record.
type Entity struct {
	source string

	mu     sync.RWMutex
	fields map[string]any
}

// New creates an entity for the named source. The field map is copied.
func New(source string, fields map[string]any) *Entity {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return &Entity{
		source: strings.TrimSpace(source),
		fields: copied,
	}
}

// Source returns the data source name.
func (e *Entity) Source() string { return e.source }

// Get returns the value stored for field.
func (e *Entity) Get(field string) (any, bool) {
	if e == nil {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	value, ok := e.fields[field]
	return value, ok
}

// Set stores value for field and returns the entity for chaining.
func (e *Entity) Set(field string, value any) *Entity {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fields[field] = value
	return e
}

// Fields returns the sorted field names.
func (e *Entity) Fields() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
