package formcontext

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/mo"

	"github.com/goliatone/go-viewkit/pkg/datasource"
	"github.com/goliatone/go-viewkit/pkg/entity"
	"github.com/goliatone/go-viewkit/pkg/schema"
	"github.com/goliatone/go-viewkit/pkg/validation"
)

func mustColumn(t *testing.T, decl string) schema.ColumnDescriptor {
	t.Helper()
	column, err := schema.ParseColumnType(decl)
	if err != nil {
		t.Fatalf("ParseColumnType(%q): %v", decl, err)
	}
	return column
}

func fixtureSources(t *testing.T) (*datasource.Source, *datasource.Source) {
	t.Helper()

	kind := mustColumn(t, "ENUM('A','B','C')")
	kind.Default = "'B'"

	parents := datasource.New("Parents", schema.NewTable(map[string]schema.ColumnDescriptor{
		"id":    mustColumn(t, "int unsigned"),
		"name":  mustColumn(t, "varchar(100)"),
		"level": mustColumn(t, "tinyint"),
		"kind":  kind,
	}, "id"), validation.NewRuleSet().
		Add("name", validation.RequiredRule(), validation.MaxLengthRule(60)).
		Add("level", validation.GreaterThan(100)))

	children := datasource.New("Children", schema.NewTable(map[string]schema.ColumnDescriptor{
		"id":        mustColumn(t, "int"),
		"parent_id": mustColumn(t, "int"),
		"value":     mustColumn(t, "DECIMAL(10,2)"),
		"ratio":     mustColumn(t, "double"),
	}, "id"), validation.NewRuleSet().
		Add("value", validation.Between(100, 1000)).
		Add("ratio", validation.LessThanOrEquals(1).AllowEmpty()))

	parents.HasMany("children", "parent_id", children)
	children.BelongsTo("parent", "parent_id", parents)
	return parents, children
}

func optionFloat(o mo.Option[float64]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

func TestEntityContextTightensSchemaBounds(t *testing.T) {
	parents, _ := fixtureSources(t)
	ctx := NewEntityContext(entity.New("Parents", nil), parents)

	if got := optionFloat(ctx.Min("level")); got != 101.0 {
		t.Fatalf("level min = %v, want 101", got)
	}
	if got := optionFloat(ctx.Max("level")); got != 127.0 {
		t.Fatalf("level max = %v, want 127", got)
	}
	if got := ctx.MaxLength("name").OrEmpty(); got != 60 {
		t.Fatalf("name maxlength = %d, want 60", got)
	}
	if !ctx.IsRequired("name") || !ctx.IsRequired("level") {
		t.Fatalf("required flags: name=%v level=%v", ctx.IsRequired("name"), ctx.IsRequired("level"))
	}
}

func TestEntityContextThroughRelationship(t *testing.T) {
	parents, _ := fixtureSources(t)
	ctx := NewEntityContext(entity.New("Parents", nil), parents)

	got := map[string]any{
		"type": ctx.Type("children.0.value"),
		"min":  optionFloat(ctx.Min("children.0.value")),
		"max":  optionFloat(ctx.Max("children.0.value")),
		"step": ctx.Step("children.0.value").OrEmpty(),
	}
	want := map[string]any{"type": "number", "min": 100.0, "max": 1000.0, "step": "0.01"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("children.0.value constraints mismatch (-want +got):\n%s", diff)
	}

	if got := optionFloat(ctx.Max("children.1.ratio")); got != 1.0 {
		t.Fatalf("ratio max = %v, want 1", got)
	}
	if ctx.IsRequired("children.1.ratio") {
		t.Fatalf("skip-empty rules must not imply required")
	}
	if got := ctx.Step("children.1.ratio").OrEmpty(); got != schema.StepAny {
		t.Fatalf("ratio step = %q", got)
	}
}

func TestEntityContextForeignKeyIsSelect(t *testing.T) {
	_, children := fixtureSources(t)
	ctx := NewEntityContext(entity.New("Children", nil), children)

	if got := ctx.Type("parent_id"); got != schema.HTMLSelect {
		t.Fatalf("parent_id type = %q, want select", got)
	}
	if got := ctx.Type("value"); got != schema.HTMLNumber {
		t.Fatalf("value type = %q, want number", got)
	}
	if !ctx.IsPrimaryKey("id") || ctx.IsPrimaryKey("value") {
		t.Fatalf("primary key detection failed")
	}
}

func TestEntityContextDefaultsAndChoices(t *testing.T) {
	parents, _ := fixtureSources(t)
	ctx := NewEntityContext(entity.New("Parents", nil), parents)

	if got := ctx.Type("kind"); got != schema.HTMLSelect {
		t.Fatalf("kind type = %q", got)
	}
	if got := ctx.DefaultValue("kind").OrEmpty(); got != "B" {
		t.Fatalf("kind default = %v", got)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, ctx.Choices("kind")); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if ctx.Choices("name") != nil {
		t.Fatalf("non-enum columns have no choices")
	}
}

func TestEntityContextDegradesOnUnresolvedPath(t *testing.T) {
	parents, _ := fixtureSources(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := NewEntityContext(entity.New("Parents", map[string]any{
		"publisher": map[string]any{"name": "Acme"},
	}), parents, WithLogger(logger))

	for i := 0; i < 2; i++ {
		if got := ctx.Type("publisher.name"); got != "text" {
			t.Fatalf("degraded type = %q, want text", got)
		}
		if ctx.Max("publisher.name").IsPresent() || ctx.IsRequired("publisher.name") {
			t.Fatalf("degraded field must not carry constraints")
		}
	}
	if got, _ := ctx.Value("publisher.name"); got != "Acme" {
		t.Fatalf("value lookup must still walk the record, got %v", got)
	}
	if n := strings.Count(buf.String(), "field constraints unavailable"); n != 1 {
		t.Fatalf("expected one memoised debug entry, got %d:\n%s", n, buf.String())
	}
}

func TestEntityContextValue(t *testing.T) {
	parents, _ := fixtureSources(t)
	record := entity.New("Parents", map[string]any{
		"name": "root",
		"children": []*entity.Entity{
			entity.New("Children", map[string]any{"value": 250.5}),
		},
	})
	ctx := NewEntityContext(record, parents)

	if got, ok := ctx.Value("children.0.value"); !ok || got != 250.5 {
		t.Fatalf("children.0.value = %v, %v", got, ok)
	}
	if _, ok := ctx.Value("children.3.value"); ok {
		t.Fatalf("missing element must not resolve")
	}
}

func TestNullContext(t *testing.T) {
	ctx := NullContext
	if ctx.Type("anything") != "text" {
		t.Fatalf("null type must be text")
	}
	if ctx.Min("x").IsPresent() || ctx.Max("x").IsPresent() || ctx.Step("x").IsPresent() ||
		ctx.MaxLength("x").IsPresent() || ctx.DefaultValue("x").IsPresent() || ctx.IsRequired("x") {
		t.Fatalf("null context must not report constraints")
	}
	if _, ok := ctx.Value("x"); ok {
		t.Fatalf("null context has no values")
	}
}

func TestRegistryFor(t *testing.T) {
	parents, _ := fixtureSources(t)
	sources := datasource.NewRegistry()
	sources.MustRegister(parents)

	registry := NewRegistry()
	registry.MustRegister(&entity.Entity{}, EntityFactory(sources))
	registry.MustRegister(map[string]any{}, MapFactory(sources, "Parents"))

	ctx, err := registry.For(entity.New("Parents", nil))
	if err != nil {
		t.Fatalf("For(entity): %v", err)
	}
	if _, ok := ctx.(*EntityContext); !ok {
		t.Fatalf("expected *EntityContext, got %T", ctx)
	}

	ctx, err = registry.For(map[string]any{"name": "x"})
	if err != nil || !ctx.IsRequired("name") {
		t.Fatalf("map context: %v, required=%v", err, ctx != nil && ctx.IsRequired("name"))
	}

	if ctx, err := registry.For(nil); err != nil || ctx != NullContext {
		t.Fatalf("nil item must yield NullContext, got %v %v", ctx, err)
	}

	type article struct{ Title string }
	if _, err := registry.For(article{}); !errors.Is(err, ErrInvalidContext) {
		t.Fatalf("expected ErrInvalidContext, got %v", err)
	}
	if _, err := registry.For(entity.New("Unknown", nil)); err == nil {
		t.Fatalf("expected unknown source error")
	}
}
