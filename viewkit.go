// Package viewkit wires configuration, data sources, form contexts, template
// roots and helper registries into a Kit that renders views.
package viewkit

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-viewkit/pkg/config"
	"github.com/goliatone/go-viewkit/pkg/datasource"
	"github.com/goliatone/go-viewkit/pkg/entity"
	"github.com/goliatone/go-viewkit/pkg/form"
	"github.com/goliatone/go-viewkit/pkg/formcontext"
	"github.com/goliatone/go-viewkit/pkg/i18n"
	"github.com/goliatone/go-viewkit/pkg/render/template/gotemplate"
	"github.com/goliatone/go-viewkit/pkg/view"
)

// FormHelper is the name the form helper is registered under.
const FormHelper = "Form"

// EmbeddedRoot names the built-in template root.
const EmbeddedRoot = "viewkit"

// Option customises a Kit.
type Option func(*Kit)

// WithFS sets the filesystem config-relative paths (template roots, source
// definitions, translations) are read from. Defaults to the working directory.
func WithFS(fsys fs.FS) Option {
	return func(k *Kit) {
		if fsys != nil {
			k.files = fsys
		}
	}
}

// WithTemplateRoot adds a template root searched after the configured ones
// and before the embedded templates.
func WithTemplateRoot(name string, fsys fs.FS) Option {
	return func(k *Kit) {
		if fsys != nil {
			k.extraRoots = append(k.extraRoots, namedFS{name: name, fsys: fsys})
		}
	}
}

// WithSources uses registry instead of loading the configured sources.
func WithSources(registry *datasource.Registry) Option {
	return func(k *Kit) {
		k.sources = registry
	}
}

// WithTranslator uses t instead of the configured translations file.
func WithTranslator(t i18n.Translator) Option {
	return func(k *Kit) {
		if t != nil {
			k.translator = t
		}
	}
}

// WithHelper registers an additional view helper.
func WithHelper(name string, factory view.HelperFactory) Option {
	return func(k *Kit) {
		k.pendingHelpers = append(k.pendingHelpers, namedHelper{name: name, factory: factory})
	}
}

// WithCell registers a view cell.
func WithCell(name string, fn view.CellFunc) Option {
	return func(k *Kit) {
		k.pendingCells = append(k.pendingCells, namedCell{name: name, fn: fn})
	}
}

// WithContextFactory maps items of sample's type to a form context factory.
func WithContextFactory(sample any, factory formcontext.Factory) Option {
	return func(k *Kit) {
		k.pendingContexts = append(k.pendingContexts, namedContext{sample: sample, factory: factory})
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kit) {
		if logger != nil {
			k.logger = logger
		}
	}
}

type namedFS struct {
	name string
	fsys fs.FS
}

type namedHelper struct {
	name    string
	factory view.HelperFactory
}

type namedCell struct {
	name string
	fn   view.CellFunc
}

type namedContext struct {
	sample  any
	factory formcontext.Factory
}

// Kit holds the registries built at bootstrap. It is safe for concurrent
// use; every render gets its own View.
type Kit struct {
	cfg    config.Config
	files  fs.FS
	logger *slog.Logger

	sources    *datasource.Registry
	contexts   *formcontext.Registry
	translator i18n.Translator
	resolver   *view.Resolver
	engine     *gotemplate.Engine
	helpers    *view.Registry[view.HelperFactory]
	cells      *view.Registry[view.CellFunc]

	extraRoots      []namedFS
	pendingHelpers  []namedHelper
	pendingCells    []namedCell
	pendingContexts []namedContext
}

// New builds a Kit from cfg.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Kit, error) {
	k := &Kit{
		cfg:    cfg,
		files:  os.DirFS("."),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}

	if k.sources == nil {
		sources, err := LoadSources(ctx, k.files, cfg.Sources.Definitions, cfg.Sources.OpenAPI)
		if err != nil {
			return nil, err
		}
		k.sources = sources
	}
	if err := k.buildContexts(); err != nil {
		return nil, err
	}
	if err := k.loadTranslations(); err != nil {
		return nil, err
	}
	if err := k.buildTemplates(); err != nil {
		return nil, err
	}
	if err := k.buildRegistries(); err != nil {
		return nil, err
	}

	k.logger.Debug("viewkit: kit ready",
		"sources", k.sources.Names(),
		"roots", k.resolver.Roots(),
		"helpers", k.helpers.Names(),
		"cells", k.cells.Names(),
	)
	return k, nil
}

func (k *Kit) buildContexts() error {
	k.contexts = formcontext.NewRegistry()
	err := k.contexts.Register((*entity.Entity)(nil),
		formcontext.EntityFactory(k.sources, formcontext.WithLogger(k.logger)))
	if err != nil {
		return err
	}
	for _, pending := range k.pendingContexts {
		if err := k.contexts.Register(pending.sample, pending.factory); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kit) loadTranslations() error {
	path := strings.TrimSpace(k.cfg.I18n.Translations)
	if k.translator != nil || path == "" {
		return nil
	}
	data, err := fs.ReadFile(k.files, path)
	if err != nil {
		return fmt.Errorf("viewkit: read translations: %w", err)
	}
	catalog := i18n.NewMapTranslator(k.cfg.I18n.Fallback)
	if err := catalog.LoadYAML(data); err != nil {
		return fmt.Errorf("viewkit: %s: %w", path, err)
	}
	k.translator = catalog
	return nil
}

func (k *Kit) buildTemplates() error {
	roots := make([]namedFS, 0, len(k.cfg.Templates.Roots)+len(k.extraRoots)+1)
	for _, dir := range k.cfg.Templates.Roots {
		if filepath.IsAbs(dir) {
			roots = append(roots, namedFS{name: dir, fsys: os.DirFS(dir)})
			continue
		}
		sub, err := fs.Sub(k.files, filepath.ToSlash(filepath.Clean(dir)))
		if err != nil {
			return fmt.Errorf("viewkit: template root %q: %w", dir, err)
		}
		roots = append(roots, namedFS{name: dir, fsys: sub})
	}
	roots = append(roots, k.extraRoots...)
	roots = append(roots, namedFS{name: EmbeddedRoot, fsys: EmbeddedTemplates()})

	resolverOpts := []view.ResolverOption{
		view.WithExtension(k.cfg.Templates.Extension),
		view.WithCacheSize(k.cfg.Templates.CacheSize),
		view.WithResolverLogger(k.logger),
	}
	engineOpts := []gotemplate.Option{
		gotemplate.WithExtension(k.cfg.Templates.Extension),
		gotemplate.WithTemplateFunc(i18n.TemplateFuncs(k.translator, i18n.TemplateConfig{})),
	}
	for _, root := range roots {
		resolverOpts = append(resolverOpts, view.WithRoot(root.name, root.fsys))
		engineOpts = append(engineOpts, gotemplate.WithFS(root.fsys))
	}

	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return err
	}
	k.engine = engine
	k.resolver = view.NewResolver(resolverOpts...)
	return nil
}

func (k *Kit) buildRegistries() error {
	k.helpers = view.NewRegistry[view.HelperFactory]("helper", k.cfg.View.HelperNamespaces...)
	if err := k.helpers.Register(FormHelper, k.formHelper); err != nil {
		return err
	}
	for _, pending := range k.pendingHelpers {
		if err := k.helpers.Register(pending.name, pending.factory); err != nil {
			return err
		}
	}

	k.cells = view.NewRegistry[view.CellFunc]("cell", k.cfg.View.CellNamespaces...)
	for _, pending := range k.pendingCells {
		if err := k.cells.Register(pending.name, pending.fn); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kit) formHelper(v *view.View) (any, error) {
	req := requestFrom(v.Context())
	opts := []form.Option{
		form.WithContexts(k.contexts),
		form.WithPostedData(req.posted),
		form.WithAction(req.action),
		form.WithLogger(k.logger),
	}
	if k.translator != nil {
		opts = append(opts, form.WithTranslator(k.translator, req.locale))
	}
	return form.New(opts...), nil
}

// NewView creates a view for one render with the configured layout and
// helpers loaded.
func (k *Kit) NewView(ctx context.Context, vars map[string]any, opts ...RenderOption) (*view.View, error) {
	req := k.request(opts)
	ctx = withRequest(ctx, req)

	v := view.New(k.resolver, k.engine,
		view.WithContext(ctx),
		view.WithHelpers(k.helpers),
		view.WithCells(k.cells),
		view.WithLayout(req.layout),
		view.WithLogger(k.logger),
		view.WithVars(vars),
	)
	v.Set("locale", req.locale)
	if err := v.Load(k.cfg.View.Helpers...); err != nil {
		return nil, err
	}
	return v, nil
}

// Render renders the named template through a fresh view and writes the
// result to w.
func (k *Kit) Render(ctx context.Context, w io.Writer, name string, vars map[string]any, opts ...RenderOption) error {
	v, err := k.NewView(ctx, vars, opts...)
	if err != nil {
		return err
	}
	out, err := v.Render(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func (k *Kit) request(opts []RenderOption) request {
	req := request{
		locale: k.cfg.I18n.Locale,
		layout: k.cfg.View.Layout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	return req
}

// Config returns the configuration the kit was built from.
func (k *Kit) Config() config.Config { return k.cfg }

// Sources returns the data-source registry.
func (k *Kit) Sources() *datasource.Registry { return k.sources }

// Contexts returns the form context registry.
func (k *Kit) Contexts() *formcontext.Registry { return k.contexts }

// Resolver returns the template resolver.
func (k *Kit) Resolver() *view.Resolver { return k.resolver }

// Helpers returns the helper registry.
func (k *Kit) Helpers() *view.Registry[view.HelperFactory] { return k.helpers }

// Cells returns the cell registry.
func (k *Kit) Cells() *view.Registry[view.CellFunc] { return k.cells }
