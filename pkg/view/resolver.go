package view

import (
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Template folders searched under every root.
const (
	FolderTemplates = ""
	FolderElements  = "elements"
	FolderLayouts   = "layouts"
	FolderCells     = "cells"
)

const (
	defaultExtension = ".tpl"
	defaultCacheSize = 256
)

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

type root struct {
	name string
	fsys fs.FS
}

// Resolver maps logical template names onto files across an ordered list of
// roots. Found paths are cached per (folder, name).
type Resolver struct {
	mu        sync.RWMutex
	roots     []root
	extension string
	cacheSize int
	cache     *lru.Cache[string, string]
	logger    *slog.Logger
}

// WithRoot appends a search root. Earlier roots shadow later ones.
func WithRoot(name string, fsys fs.FS) ResolverOption {
	return func(r *Resolver) {
		if fsys != nil {
			r.roots = append(r.roots, root{name: strings.TrimSpace(name), fsys: fsys})
		}
	}
}

// WithExtension sets the extension appended to names without one.
func WithExtension(ext string) ResolverOption {
	return func(r *Resolver) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.extension = ext
	}
}

// WithCacheSize bounds the lookup cache. Zero or negative disables caching.
func WithCacheSize(size int) ResolverOption {
	return func(r *Resolver) {
		r.cacheSize = size
	}
}

// WithResolverLogger sets the logger used for lookup diagnostics.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a Resolver. A resolver without roots locates nothing.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		extension: defaultExtension,
		cacheSize: defaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.cacheSize > 0 {
		cache, err := lru.New[string, string](r.cacheSize)
		if err == nil {
			r.cache = cache
		}
	}
	return r
}

// Extension returns the template extension.
func (r *Resolver) Extension() string { return r.extension }

// Roots returns the root names in search order.
func (r *Resolver) Roots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.roots))
	for i, rt := range r.roots {
		names[i] = rt.name
	}
	return names
}

// Locate returns the slash separated path of the first file matching name in
// folder, relative to its root.
func (r *Resolver) Locate(name, folder string) (string, bool) {
	_, found, ok := r.LocateIn(name, folder)
	return found, ok
}

// LocateIn is Locate that also reports the name of the matching root.
func (r *Resolver) LocateIn(name, folder string) (string, string, bool) {
	candidate, ok := r.candidate(name, folder)
	if !ok {
		return "", "", false
	}

	if r.cache != nil {
		if rootName, ok := r.cache.Get(candidate); ok {
			return rootName, candidate, true
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rt := range r.roots {
		info, err := fs.Stat(rt.fsys, candidate)
		if err != nil || info.IsDir() {
			continue
		}
		r.logger.Debug("view: template located", "name", name, "folder", folder, "root", rt.name, "path", candidate)
		if r.cache != nil {
			r.cache.Add(candidate, rt.name)
		}
		return rt.name, candidate, true
	}
	r.logger.Debug("view: template not found", "name", name, "folder", folder, "roots", len(r.roots))
	return "", "", false
}

// Purge drops every cached lookup.
func (r *Resolver) Purge() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

func (r *Resolver) candidate(name, folder string) (string, bool) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return "", false
	}
	if path.Ext(name) != r.extension {
		name += r.extension
	}
	candidate := path.Join(strings.Trim(folder, "/"), name)
	if !fs.ValidPath(candidate) {
		return "", false
	}
	return candidate, true
}
