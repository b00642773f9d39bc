package gotemplate

import (
	"io"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-viewkit/pkg/testsupport"
)

func TestEngineRendersAcrossRootsInOrder(t *testing.T) {
	app := fstest.MapFS{"pages/home.tpl": {Data: []byte(`app {{ name }}`)}}
	plugin := fstest.MapFS{
		"pages/home.tpl":  {Data: []byte(`plugin {{ name }}`)},
		"pages/about.tpl": {Data: []byte(`about {{ name|lowerfirst }}`)},
	}
	engine, err := New(WithFS(app), WithFS(plugin))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := engine.RenderTemplate("pages/home", map[string]any{"name": "Ada"})
	if err != nil || got != "app Ada" {
		t.Fatalf("home = (%q, %v)", got, err)
	}
	got, err = engine.Render("pages/about.tpl", map[string]any{"name": "Ada"})
	if err != nil || got != "about ada" {
		t.Fatalf("about = (%q, %v)", got, err)
	}
	if _, err := engine.RenderTemplate("pages/missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}

func TestEngineRenderStringAndWriters(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}), WithGlobalData(map[string]any{"site": "viewkit"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.Render(`{{ site }}: {{ title|trim }}`, map[string]any{"title": "  Home  "}, w)
	})
	if got != "viewkit: Home" || written != got {
		t.Fatalf("Render = %q, writer = %q", got, written)
	}
}

type page struct {
	Title string `json:"title"`
}

func TestEngineContextConversion(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}), WithTemplateFunc(map[string]any{
		"shout": func(s string) string { return strings.ToUpper(s) },
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := engine.RenderString(`{{ shout(title) }}`, page{Title: "home"})
	if err != nil || got != "HOME" {
		t.Fatalf("struct context = (%q, %v)", got, err)
	}

	counter := &page{Title: "ptr"}
	got, err = engine.RenderString(`{{ p.Title }}`, map[string]any{"p": counter})
	if err != nil || got != "ptr" {
		t.Fatalf("pointer passthrough = (%q, %v)", got, err)
	}
}

func TestEngineRegisterFilter(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = engine.RegisterFilter("viewkit_suffix", func(input any, param any) (any, error) {
		return strings.TrimSpace(input.(string)) + param.(string), nil
	})
	if err != nil {
		t.Fatalf("RegisterFilter: %v", err)
	}
	if err := engine.RegisterFilter("viewkit_suffix", nil); err == nil {
		t.Fatalf("expected error for nil filter")
	}

	got, err := engine.RenderString(`{{ name|viewkit_suffix:"!" }}`, map[string]any{"name": " hi "})
	if err != nil || got != "hi!" {
		t.Fatalf("filter output = (%q, %v)", got, err)
	}
}

func TestEngineRequiresRoot(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without roots")
	}
}

func TestEngineNestedRenderDoesNotDeadlock(t *testing.T) {
	fsys := fstest.MapFS{
		"outer.tpl": {Data: []byte(`[{{ inner() }}]`)},
		"inner.tpl": {Data: []byte(`inner`)},
	}
	engine, err := New(WithFS(fsys))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inner := func() (string, error) { return engine.RenderTemplate("inner", nil) }
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := engine.RenderTemplate("outer", map[string]any{"inner": inner})
			if err != nil || got != "[inner]" {
				t.Errorf("outer = (%q, %v)", got, err)
			}
		}()
	}
	wg.Wait()
}
