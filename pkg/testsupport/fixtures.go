package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewkit/pkg/datasource"
	"github.com/goliatone/go-viewkit/pkg/entity"
	"github.com/goliatone/go-viewkit/pkg/schema"
	"github.com/goliatone/go-viewkit/pkg/validation"
)

// Column parses a column declaration and attaches a stored default.
func Column(t testing.TB, decl string, def any) schema.ColumnDescriptor {
	t.Helper()
	col, err := schema.ParseColumnType(decl)
	if err != nil {
		t.Fatalf("ParseColumnType(%q): %v", decl, err)
	}
	col.Default = def
	return col
}

// ParentSources returns the Parents/Children fixture:
//
//	Parents  id int unsigned (pk), name varchar(100) default 'untitled'
//	         (required, maxLength 60), kind ENUM('A','B','C') default 'B',
//	         active tinyint(1) default 1, email varchar(120), notes text,
//	         born_on date, reminder datetime; hasMany children
//	Children id int (pk), parent_id int, value DECIMAL(10,2)
//	         (between 100 and 1000, skip empty); belongsTo parent
func ParentSources(t testing.TB) *datasource.Registry {
	t.Helper()

	parents := datasource.New("Parents", schema.NewTable(map[string]schema.ColumnDescriptor{
		"id":       Column(t, "int unsigned", nil),
		"name":     Column(t, "varchar(100)", "'untitled'"),
		"kind":     Column(t, "ENUM('A','B','C')", "'B'"),
		"active":   Column(t, "tinyint(1)", "1"),
		"email":    Column(t, "varchar(120)", nil),
		"notes":    Column(t, "text", nil),
		"born_on":  Column(t, "date", nil),
		"reminder": Column(t, "datetime", nil),
	}, "id"), validation.NewRuleSet().
		Add("name", validation.RequiredRule(), validation.MaxLengthRule(60)))

	children := datasource.New("Children", schema.NewTable(map[string]schema.ColumnDescriptor{
		"id":        Column(t, "int", nil),
		"parent_id": Column(t, "int", nil),
		"value":     Column(t, "DECIMAL(10,2)", nil),
	}, "id"), validation.NewRuleSet().
		Add("value", validation.Between(100, 1000).AllowEmpty()))

	parents.HasMany("children", "parent_id", children)
	children.BelongsTo("parent", "parent_id", parents)

	sources := datasource.NewRegistry()
	sources.MustRegister(parents)
	sources.MustRegister(children)
	return sources
}

// AssertMarkup fails the test with a diff when got differs from want.
func AssertMarkup(t testing.TB, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

// MustRender returns a function that fails the test when a render call
// errors, so results can be passed straight through:
//
//	got := MustRender(t)(h.Text("name"))
func MustRender(t testing.TB) func(string, error) string {
	return func(out string, err error) string {
		t.Helper()
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		return out
	}
}

// Record is a shorthand for entity.New.
func Record(source string, fields map[string]any) *entity.Entity {
	return entity.New(source, fields)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t testing.TB, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both the result and what was written.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
