package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/goliatone/go-viewkit/pkg/render/template"
)

// HelperFactory builds a helper bound to a view. Helpers are built at most
// once per view.
type HelperFactory func(v *View) (any, error)

// CellFunc runs a cell action and returns the variables its template renders
// with.
type CellFunc func(v *View, action string, args ...any) (map[string]any, error)

// DefaultCellAction is used when a cell name carries no "::action" suffix.
const DefaultCellAction = "display"

// Option configures a View.
type Option func(*View)

// WithHelpers injects the helper registry.
func WithHelpers(helpers *Registry[HelperFactory]) Option {
	return func(v *View) {
		v.helpers = helpers
	}
}

// WithCells injects the cell registry.
func WithCells(cells *Registry[CellFunc]) Option {
	return func(v *View) {
		v.cells = cells
	}
}

// WithLayout sets the layout wrapped around rendered templates.
func WithLayout(name string) Option {
	return func(v *View) {
		v.layout = strings.TrimSpace(name)
	}
}

// WithVars seeds template variables.
func WithVars(vars map[string]any) Option {
	return func(v *View) {
		maps.Copy(v.vars, vars)
	}
}

// WithContext sets the request context helpers and cells can read from.
func WithContext(ctx context.Context) Option {
	return func(v *View) {
		if ctx != nil {
			v.ctx = ctx
		}
	}
}

// WithLogger sets the view logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// View renders one response: a template, optionally wrapped in a layout, plus
// the elements and cells it pulls in. A View is request scoped and not safe
// for concurrent use.
type View struct {
	resolver *Resolver
	engine   template.Executor
	helpers  *Registry[HelperFactory]
	cells    *Registry[CellFunc]
	logger   *slog.Logger
	ctx      context.Context

	layout string
	vars   map[string]any
	blocks *Blocks
	loaded map[string]any
}

// New creates a view over resolver and engine. The engine must load templates
// from the same roots, in the same order, as the resolver.
func New(resolver *Resolver, engine template.Executor, opts ...Option) *View {
	v := &View{
		resolver: resolver,
		engine:   engine,
		logger:   slog.Default(),
		ctx:      context.Background(),
		vars:     make(map[string]any),
		blocks:   NewBlocks(),
		loaded:   make(map[string]any),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Context returns the request context.
func (v *View) Context() context.Context { return v.ctx }

// Set assigns a template variable.
func (v *View) Set(name string, value any) *View {
	v.vars[name] = value
	return v
}

// SetVars merges vars into the template variables.
func (v *View) SetVars(vars map[string]any) *View {
	maps.Copy(v.vars, vars)
	return v
}

// Get returns a template variable.
func (v *View) Get(name string) (any, bool) {
	value, ok := v.vars[name]
	return value, ok
}

// SetLayout changes the layout. An empty name disables it.
func (v *View) SetLayout(name string) *View {
	v.layout = strings.TrimSpace(name)
	return v
}

// Layout returns the current layout name.
func (v *View) Layout() string { return v.layout }

// Blocks exposes the block store.
func (v *View) Blocks() *Blocks { return v.blocks }

// Fetch returns the content of a block or the fallback.
func (v *View) Fetch(name string, fallback ...string) string {
	return v.blocks.Fetch(name, fallback...)
}

// Exists reports whether a block has been assigned.
func (v *View) Exists(name string) bool { return v.blocks.Exists(name) }

// Assign, Append and Prepend return an empty string so templates can call
// them inline.
func (v *View) Assign(name string, content any) string {
	v.blocks.Assign(name, content)
	return ""
}

func (v *View) Append(name string, content any) string {
	v.blocks.Append(name, content)
	return ""
}

func (v *View) Prepend(name string, content any) string {
	v.blocks.Prepend(name, content)
	return ""
}

// Helper returns the helper registered under name, building it on first use.
func (v *View) Helper(name string) (any, error) {
	if helper, ok := v.loaded[helperKey(name)]; ok {
		return helper, nil
	}
	factory, key, ok := v.helpers.Resolve(name)
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingHelper, name)
	}
	helper, err := factory(v)
	if err != nil {
		return nil, fmt.Errorf("view: build helper %q: %w", key, err)
	}
	v.loaded[helperKey(name)] = helper
	return helper, nil
}

// Load builds the named helpers so templates can address them as variables.
func (v *View) Load(names ...string) error {
	for _, name := range names {
		if _, err := v.Helper(name); err != nil {
			return err
		}
	}
	return nil
}

// Element renders a template from the elements folder with the view
// variables overlaid by data.
func (v *View) Element(name string, data ...map[string]any) (string, error) {
	path, ok := v.resolver.Locate(name, FolderElements)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidElement, name)
	}
	extra := make(map[string]any)
	for _, d := range data {
		maps.Copy(extra, d)
	}
	return v.execute(path, extra)
}

// Cell runs a registered cell and renders cells/<Name>/<action>. Names take
// the form "Name" or "Name::action".
func (v *View) Cell(name string, args ...any) (string, error) {
	cellName, action, _ := strings.Cut(name, "::")
	if action == "" {
		action = DefaultCellAction
	}
	fn, key, ok := v.cells.Resolve(cellName)
	if !ok || fn == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCell, cellName)
	}
	path, ok := v.resolver.Locate(cellName+"/"+action, FolderCells)
	if !ok {
		return "", fmt.Errorf("%w: %q has no %q template", ErrInvalidCell, key, action)
	}

	child := New(v.resolver, v.engine,
		WithHelpers(v.helpers),
		WithCells(v.cells),
		WithLogger(v.logger),
		WithContext(v.ctx),
	)
	vars, err := fn(child, action, args...)
	if err != nil {
		return "", fmt.Errorf("view: cell %q: %w", key, err)
	}
	child.SetVars(vars)
	return child.evaluate(path)
}

// Render renders the named template and, when a layout is set, stores the
// output in the content block and renders the layout around it.
func (v *View) Render(name string) (string, error) {
	path, ok := v.resolver.Locate(name, FolderTemplates)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplate, name)
	}
	out, err := v.evaluate(path)
	if err != nil {
		return "", err
	}
	if v.layout == "" {
		return out, nil
	}

	v.blocks.Assign(ContentBlock, out)
	layoutPath, ok := v.resolver.Locate(v.layout, FolderLayouts)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLayout, v.layout)
	}
	return v.evaluate(layoutPath)
}

// evaluate renders a top level template and then force-closes any block it
// left open.
func (v *View) evaluate(path string) (string, error) {
	out, err := v.execute(path, nil)
	if unclosed := v.blocks.Unclosed(); unclosed != nil {
		v.logger.Warn("view: force-closed blocks", "template", path, "error", unclosed)
		err = errors.Join(err, unclosed)
	}
	if err != nil {
		return "", fmt.Errorf("view: render %s: %w", path, err)
	}
	return out, nil
}

func (v *View) execute(path string, extra map[string]any) (string, error) {
	if v.engine == nil {
		return "", errors.New("view: template engine is nil")
	}
	return v.engine.RenderTemplate(path, v.context(extra))
}

func (v *View) context(extra map[string]any) map[string]any {
	data := make(map[string]any, len(v.vars)+len(v.loaded)+len(extra)+1)
	maps.Copy(data, v.loaded)
	maps.Copy(data, v.vars)
	maps.Copy(data, extra)
	data["view"] = v
	return data
}

// helperKey is the variable name a helper is exposed under: the last segment
// of a qualified name.
func helperKey(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
