package view

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores named entries and resolves short names by trying each
// namespace in order before the bare name. Qualified names ("Admin.Menu")
// resolve only as given.
type Registry[T any] struct {
	mu         sync.RWMutex
	kind       string
	namespaces []string
	entries    map[string]T
}

// NewRegistry creates a registry. kind names the entries in errors.
func NewRegistry[T any](kind string, namespaces ...string) *Registry[T] {
	cleaned := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		if ns = strings.Trim(strings.TrimSpace(ns), "."); ns != "" {
			cleaned = append(cleaned, ns)
		}
	}
	return &Registry[T]{
		kind:       kind,
		namespaces: cleaned,
		entries:    make(map[string]T),
	}
}

// Register adds an entry. Names must be unique.
func (r *Registry[T]) Register(name string, entry T) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("view: %s name is required", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("view: %s %q already registered", r.kind, name)
	}
	r.entries[name] = entry
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry[T]) MustRegister(name string, entry T) {
	if err := r.Register(name, entry); err != nil {
		panic(err)
	}
}

// Resolve returns the entry for name and the key it was found under.
func (r *Registry[T]) Resolve(name string) (T, string, bool) {
	var zero T
	if r == nil {
		return zero, "", false
	}
	name = strings.TrimSpace(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, key := range r.candidates(name) {
		if entry, ok := r.entries[key]; ok {
			return entry, key, true
		}
	}
	return zero, "", false
}

// Has reports whether name resolves.
func (r *Registry[T]) Has(name string) bool {
	_, _, ok := r.Resolve(name)
	return ok
}

// Names returns every registered key in sorted order.
func (r *Registry[T]) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry[T]) candidates(name string) []string {
	if name == "" {
		return nil
	}
	if strings.Contains(name, ".") {
		return []string{name}
	}
	keys := make([]string, 0, len(r.namespaces)+1)
	for _, ns := range r.namespaces {
		keys = append(keys, ns+"."+name)
	}
	return append(keys, name)
}
