package formcontext

import (
	"log/slog"
	"slices"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/goliatone/go-viewkit/pkg/datasource"
	"github.com/goliatone/go-viewkit/pkg/entity"
	"github.com/goliatone/go-viewkit/pkg/schema"
	"github.com/goliatone/go-viewkit/pkg/validation"
)

// Option customises an EntityContext.
type Option func(*EntityContext)

// WithLogger sets the logger used to report degraded field resolution.
func WithLogger(logger *slog.Logger) Option {
	return func(c *EntityContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type resolution struct {
	source datasource.DataSource
	field  string
	ok     bool
}

// EntityContext derives constraints from a record and the data source it was
// loaded from. Field resolutions are memoised for the lifetime of the context.
// An EntityContext belongs to a single render and is not safe for concurrent use.
type EntityContext struct {
	record   entity.Record
	root     datasource.DataSource
	logger   *slog.Logger
	resolved map[string]resolution
}

// NewEntityContext creates a context for record. root may be nil, in which
// case every constraint query degrades to the Null answers.
func NewEntityContext(record entity.Record, root datasource.DataSource, opts ...Option) *EntityContext {
	c := &EntityContext{
		record:   record,
		root:     root,
		logger:   slog.Default(),
		resolved: make(map[string]resolution),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Record returns the backing record.
func (c *EntityContext) Record() entity.Record { return c.record }

// Source returns the root data source.
func (c *EntityContext) Source() datasource.DataSource { return c.root }

func (c *EntityContext) resolve(key string) resolution {
	if cached, ok := c.resolved[key]; ok {
		return cached
	}
	var res resolution
	if c.root != nil {
		source, field, err := datasource.Resolve(key, c.root)
		if err != nil {
			c.logger.Debug("formcontext: field constraints unavailable",
				"key", key,
				"source", c.root.Name(),
				"error", err,
			)
		} else {
			res = resolution{source: source, field: field, ok: true}
		}
	}
	c.resolved[key] = res
	return res
}

func (c *EntityContext) column(key string) (schema.ColumnDescriptor, bool) {
	res := c.resolve(key)
	if !res.ok || res.source.Schema() == nil {
		return schema.ColumnDescriptor{}, false
	}
	return res.source.Schema().Column(res.field)
}

func (c *EntityContext) rules(key string) []validation.Rule {
	res := c.resolve(key)
	if !res.ok || res.source.Validator() == nil {
		return nil
	}
	return res.source.Validator().FieldRules(res.field)
}

// Type returns "select" for foreign keys of belongsTo associations, otherwise
// the schema-derived input type.
func (c *EntityContext) Type(key string) string {
	res := c.resolve(key)
	if !res.ok {
		return Null{}.Type(key)
	}
	for _, rel := range res.source.Relationships() {
		if rel.IsOwningSide() && rel.ForeignKey == res.field {
			return schema.HTMLSelect
		}
	}
	if column, ok := c.column(key); ok {
		return schema.HTMLType(column)
	}
	return Null{}.Type(key)
}

// Max merges the schema and validation upper bounds. Validation only tightens.
func (c *EntityContext) Max(key string) mo.Option[float64] {
	bound := validation.Max(c.rules(key))
	if column, ok := c.column(key); ok {
		bound = tighten(schema.MaxValue(column), bound, lower[float64])
	}
	return bound
}

// Min merges the schema and validation lower bounds. Validation only tightens.
func (c *EntityContext) Min(key string) mo.Option[float64] {
	bound := validation.Min(c.rules(key))
	if column, ok := c.column(key); ok {
		bound = tighten(schema.MinValue(column), bound, higher[float64])
	}
	return bound
}

// MaxLength merges the schema and validation length caps.
func (c *EntityContext) MaxLength(key string) mo.Option[int] {
	bound := validation.MaxLength(c.rules(key))
	if column, ok := c.column(key); ok {
		bound = tighten(schema.MaxLength(column), bound, lower[int])
	}
	return bound
}

func (c *EntityContext) Step(key string) mo.Option[string] {
	if column, ok := c.column(key); ok {
		return schema.Step(column)
	}
	return mo.None[string]()
}

func (c *EntityContext) DefaultValue(key string) mo.Option[any] {
	if column, ok := c.column(key); ok {
		return schema.DefaultValue(column)
	}
	return mo.None[any]()
}

func (c *EntityContext) IsRequired(key string) bool {
	return validation.Required(c.rules(key))
}

// Value walks key against the backing record.
func (c *EntityContext) Value(key string) (any, bool) {
	if c.record == nil {
		return nil, false
	}
	return entity.Lookup(c.record, key)
}

func (c *EntityContext) Choices(key string) []string {
	column, ok := c.column(key)
	if !ok || (column.Type != schema.TypeEnum && column.Type != schema.TypeSet) {
		return nil
	}
	return slices.Clone(column.Values)
}

func (c *EntityContext) IsPrimaryKey(key string) bool {
	res := c.resolve(key)
	if !res.ok {
		return false
	}
	keyed, ok := res.source.(interface{ PrimaryKey() []string })
	return ok && lo.Contains(keyed.PrimaryKey(), res.field)
}

func tighten[T int | float64](a, b mo.Option[T], pick func(x, y T) T) mo.Option[T] {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case aok && bok:
		return mo.Some(pick(av, bv))
	case aok:
		return a
	default:
		return b
	}
}

func lower[T int | float64](x, y T) T { return min(x, y) }

func higher[T int | float64](x, y T) T { return max(x, y) }
