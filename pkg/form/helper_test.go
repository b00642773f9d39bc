package form

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/samber/mo"

	"github.com/goliatone/go-viewkit/pkg/entity"
	"github.com/goliatone/go-viewkit/pkg/formcontext"
	"github.com/goliatone/go-viewkit/pkg/i18n"
	"github.com/goliatone/go-viewkit/pkg/testsupport"
)

func fixtureContexts(t *testing.T) *formcontext.Registry {
	t.Helper()
	registry := formcontext.NewRegistry()
	registry.MustRegister(&entity.Entity{}, formcontext.EntityFactory(testsupport.ParentSources(t)))
	return registry
}

var (
	mustRender   = testsupport.MustRender
	assertMarkup = testsupport.AssertMarkup
)

func TestNullContextText(t *testing.T) {
	h := New()
	got := mustRender(t)(h.Text("name"))
	assertMarkup(t, `<input type="text" name="name" id="name" placeholder="Name">`, got)
}

func TestDecimalBetweenScenario(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	mustRender(t)(h.Open(entity.New("Children", nil)))

	got := mustRender(t)(h.Input("value"))
	assertMarkup(t, `<input type="number" name="value" id="value" min="100" max="1000" step="0.01">`, got)
}

func TestEnumDefaultSelectScenario(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	mustRender(t)(h.Open(entity.New("Parents", nil)))

	got := mustRender(t)(h.Input("kind"))
	assertMarkup(t, `<select name="kind" id="kind"><option value="A">A</option><option value="B" selected>B</option><option value="C">C</option></select>`, got)
}

func TestRelationshipHopThroughIndex(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	record := entity.New("Parents", map[string]any{
		"children": []*entity.Entity{entity.New("Children", map[string]any{"value": 250.5})},
	})
	mustRender(t)(h.Open(record))

	got := mustRender(t)(h.Input("children.0.value"))
	assertMarkup(t, `<input type="number" name="children[0][value]" id="children-0-value" value="250.5" min="100" max="1000" step="0.01">`, got)
}

func TestCheckboxPairing(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))

	got := mustRender(t)(h.Checkbox("active"))
	assertMarkup(t, `<input type="hidden" name="active" value="0"><input type="checkbox" name="active" id="active" value="1">`, got)

	got = mustRender(t)(h.Checkbox("active", FieldOptions{HiddenField: mo.Some(false)}))
	assertMarkup(t, `<input type="checkbox" name="active" id="active" value="1">`, got)

	mustRender(t)(h.Open(entity.New("Parents", nil)))
	got = mustRender(t)(h.Input("active"))
	assertMarkup(t, `<input type="hidden" name="active" value="0"><input type="checkbox" name="active" id="active" value="1" checked>`, got)
}

func TestRadioHiddenSibling(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	mustRender(t)(h.Open(entity.New("Parents", map[string]any{"kind": "C"})))

	got := mustRender(t)(h.Radio("kind"))
	want := `<input type="hidden" name="kind" value="">` +
		`<label for="kind-a"><input type="radio" name="kind" id="kind-a" value="A">A</label>` +
		`<label for="kind-b"><input type="radio" name="kind" id="kind-b" value="B">B</label>` +
		`<label for="kind-c"><input type="radio" name="kind" id="kind-c" value="C" checked>C</label>`
	assertMarkup(t, want, got)
}

func TestCheckboxAndRadioPostBack(t *testing.T) {
	radios := func(checked string) string {
		out := `<input type="hidden" name="kind" value="">`
		for _, v := range []string{"A", "B", "C"} {
			id := "kind-" + strings.ToLower(v)
			flag := ""
			if v == checked {
				flag = " checked"
			}
			out += `<label for="` + id + `"><input type="radio" name="kind" id="` + id + `" value="` + v + `"` + flag + `>` + v + `</label>`
		}
		return out
	}

	cases := []struct {
		name     string
		query    string
		record   map[string]any
		checkbox string
		radio    string
	}{
		{
			name:     "checked submission",
			query:    "active=0&active=1&kind=&kind=B",
			record:   map[string]any{"active": false, "kind": "C"},
			checkbox: `<input type="hidden" name="active" value="0"><input type="checkbox" name="active" id="active" value="1" checked>`,
			radio:    radios("B"),
		},
		{
			name:     "unchecked submission",
			query:    "active=0&kind=",
			record:   map[string]any{"active": true, "kind": "C"},
			checkbox: `<input type="hidden" name="active" value="0"><input type="checkbox" name="active" id="active" value="1">`,
			radio:    radios(""),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			posted, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			h := New(WithContexts(fixtureContexts(t)), WithPostedData(URLValues(posted)))
			mustRender(t)(h.Open(entity.New("Parents", tc.record)))

			assertMarkup(t, tc.checkbox, mustRender(t)(h.Checkbox("active")))
			assertMarkup(t, tc.radio, mustRender(t)(h.Radio("kind")))
		})
	}
}

func TestNameRoundTrip(t *testing.T) {
	if got := FieldName("a.b.c"); got != "a[b][c]" {
		t.Fatalf("FieldName = %q", got)
	}
	if got := DottedKey("a[b][c]"); got != "a.b.c" {
		t.Fatalf("DottedKey = %q", got)
	}

	posted := URLValues{"a[b][c]": {"x"}}
	h := New(WithPostedData(posted))
	got := mustRender(t)(h.Text("a.b.c"))
	assertMarkup(t, `<input type="text" name="a[b][c]" id="a-b-c" value="x" placeholder="C">`, got)

	body := NewJSONBody([]byte(`{"a":{"b":{"c":"y"}}}`))
	h = New(WithPostedData(body))
	if !strings.Contains(mustRender(t)(h.Text("a.b.c")), `value="y"`) {
		t.Fatalf("json posted value not used")
	}
}

func TestFieldID(t *testing.T) {
	cases := map[string]string{
		"title":            "title",
		"first_name":       "first-name",
		"children.0.value": "children-0-value",
		"Author.Name":      "author-name",
		"tags._ids":        "tags-_ids",
	}
	for key, want := range cases {
		if got := FieldID(key); got != want {
			t.Fatalf("FieldID(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestOpenCloseOpen(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)), WithAction("/parents/add"))

	got := mustRender(t)(h.Open(entity.New("Parents", nil)))
	assertMarkup(t, `<form method="post" accept-charset="utf-8" action="/parents/add">`, got)

	if _, err := h.Open(nil); !errors.Is(err, ErrUnclosedForm) {
		t.Fatalf("expected ErrUnclosedForm, got %v", err)
	}
	if got := h.Close(); got != "</form>" {
		t.Fatalf("Close = %q", got)
	}
	if h.Context() != formcontext.NullContext {
		t.Fatalf("close must restore the null context")
	}
	if _, err := h.Open(nil); err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
}

func TestOpenMethodOverride(t *testing.T) {
	h := New()
	got := mustRender(t)(h.Open(nil, FormOptions{Method: "put", Action: "/a/1", ID: "edit", Multipart: true}))
	assertMarkup(t, `<form method="post" accept-charset="utf-8" id="edit" action="/a/1" enctype="multipart/form-data"><input type="hidden" name="_method" value="PUT">`, got)
}

func TestOpenInvalidContext(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	type article struct{}
	if _, err := h.Open(article{}); !errors.Is(err, formcontext.ErrInvalidContext) {
		t.Fatalf("expected ErrInvalidContext, got %v", err)
	}
	if h.IsOpen() {
		t.Fatalf("failed open must leave the helper closed")
	}
	if _, err := New().Open(map[string]any{}); !errors.Is(err, formcontext.ErrInvalidContext) {
		t.Fatalf("expected ErrInvalidContext without registry, got %v", err)
	}
}

func TestInvalidInputType(t *testing.T) {
	h := New()
	if _, err := h.As("color", "theme"); !errors.Is(err, ErrInvalidInputType) {
		t.Fatalf("expected ErrInvalidInputType, got %v", err)
	}
	if _, err := h.Input("theme", FieldOptions{Type: mo.Some(InputType("range"))}); !errors.Is(err, ErrInvalidInputType) {
		t.Fatalf("expected ErrInvalidInputType, got %v", err)
	}
	got := mustRender(t)(h.As("datetime-local", "starts_at"))
	assertMarkup(t, `<input type="datetime-local" name="starts_at" id="starts-at">`, got)
}

func TestAttributeCleaning(t *testing.T) {
	h := New()
	got := mustRender(t)(h.Text("title", FieldOptions{
		Placeholder: mo.Some(""),
		Attrs: map[string]any{
			"disabled":  false,
			"data-flag": false,
			"default":   "x",
			"autofocus": true,
			"class":     "wide",
		},
	}))
	assertMarkup(t, `<input type="text" name="title" id="title" autofocus class="wide" data-flag="false">`, got)
}

func TestExplicitOptionsWin(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	mustRender(t)(h.Open(entity.New("Parents", map[string]any{"name": "stored"})))

	got := mustRender(t)(h.Text("name", FieldOptions{
		ID:        mo.Some("custom"),
		Value:     mo.Some[any]("explicit"),
		Required:  mo.Some(false),
		MaxLength: mo.Some(10),
	}))
	assertMarkup(t, `<input type="text" name="name" id="custom" value="explicit" placeholder="Name" maxlength="10">`, got)
}

func TestValuePrecedence(t *testing.T) {
	contexts := fixtureContexts(t)

	cases := []struct {
		name   string
		posted PostedData
		record map[string]any
		opts   FieldOptions
		want   string
	}{
		{"posted", URLValues{"name": {"posted"}}, map[string]any{"name": "record"}, FieldOptions{}, "posted"},
		{"record", nil, map[string]any{"name": "record"}, FieldOptions{Default: mo.Some[any]("opt")}, "record"},
		{"default option", nil, nil, FieldOptions{Default: mo.Some[any]("opt")}, "opt"},
		{"schema default", nil, nil, FieldOptions{}, "untitled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(WithContexts(contexts), WithPostedData(tc.posted))
			mustRender(t)(h.Open(entity.New("Parents", tc.record)))
			got := mustRender(t)(h.Text("name", tc.opts))
			if !strings.Contains(got, `value="`+tc.want+`"`) {
				t.Fatalf("expected value %q in %s", tc.want, got)
			}
		})
	}
}

func TestInferredTypes(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	mustRender(t)(h.Open(entity.New("Parents", map[string]any{"id": 4, "notes": "a <b>"})))

	assertMarkup(t, `<input type="hidden" name="id" id="id" value="4">`, mustRender(t)(h.Input("id")))
	assertMarkup(t, `<input type="email" name="email" id="email" placeholder="Email" maxlength="120">`, mustRender(t)(h.Input("email")))
	assertMarkup(t, `<textarea name="notes" id="notes" placeholder="Notes" maxlength="65535">a &lt;b&gt;</textarea>`, mustRender(t)(h.Input("notes")))
	assertMarkup(t, `<input type="password" name="password" id="password" placeholder="Password">`, mustRender(t)(h.Input("password")))
}

func TestForeignKeySelectSynthesisesCurrentValue(t *testing.T) {
	h := New(WithContexts(fixtureContexts(t)))
	mustRender(t)(h.Open(entity.New("Children", map[string]any{"parent_id": 7})))

	got := mustRender(t)(h.Input("parent_id", FieldOptions{Empty: mo.Some("(none)")}))
	assertMarkup(t, `<select name="parent_id" id="parent-id"><option value="">(none)</option><option value="7" selected></option></select>`, got)
}

func TestMultipleSelect(t *testing.T) {
	h := New(WithPostedData(URLValues{"tags[]": {"go", "web"}}))
	got := mustRender(t)(h.Select("tags", FieldOptions{
		Multiple: mo.Some(true),
		Choices:  []Choice{{Value: "go", Label: "Go"}, {Value: "rust", Label: "Rust"}, {Value: "web", Label: "Web"}},
	}))
	assertMarkup(t, `<select name="tags[]" id="tags" multiple><option value="go" selected>Go</option><option value="rust">Rust</option><option value="web" selected>Web</option></select>`, got)
}

func TestTemporalReformatting(t *testing.T) {
	h := New()
	at := time.Date(2024, 5, 1, 10, 30, 45, 0, time.UTC)

	cases := []struct {
		name string
		got  func() (string, error)
		want string
	}{
		{"date from time", func() (string, error) { return h.Date("born_on", FieldOptions{Value: mo.Some[any](at)}) }, `<input type="date" name="born_on" id="born-on" value="2024-05-01">`},
		{"time from string", func() (string, error) { return h.Time("alarm", FieldOptions{Value: mo.Some[any]("10:30:45")}) }, `<input type="time" name="alarm" id="alarm" value="10:30">`},
		{"datetime from sql string", func() (string, error) {
			return h.Datetime("reminder", FieldOptions{Value: mo.Some[any]("2024-05-01 10:30:00")})
		}, `<input type="datetime-local" name="reminder" id="reminder" value="2024-05-01T10:30">`},
		{"unparsable dropped", func() (string, error) { return h.Date("born_on", FieldOptions{Value: mo.Some[any]("soon")}) }, `<input type="date" name="born_on" id="born-on">`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertMarkup(t, tc.want, mustRender(t)(tc.got()))
		})
	}
}

func TestLabelsAndControl(t *testing.T) {
	tr := i18n.NewMapTranslator("en").Add("en", map[string]string{"fields.name": "Full name"})
	h := New(WithContexts(fixtureContexts(t)), WithTranslator(tr, "en"))
	mustRender(t)(h.Open(entity.New("Parents", nil)))

	assertMarkup(t, `<label for="name">Full name</label>`, h.Label("name"))
	assertMarkup(t, `<label for="x">&lt;b&gt;Bold&lt;/b&gt;</label>`, h.Label("x", FieldOptions{Label: mo.Some("<b>Bold</b>")}))
	assertMarkup(t, `<label for="x"><b>Bold</b></label>`, h.Label("x", FieldOptions{Label: mo.Some(`<b onclick="x()">Bold</b><script>x()</script>`), Escape: mo.Some(false)}))

	got := mustRender(t)(h.Control("name"))
	want := `<div class="input text required"><label for="name">Full name</label>` +
		`<input type="text" name="name" id="name" value="untitled" placeholder="Full name" required maxlength="60"></div>`
	assertMarkup(t, want, got)

	got = mustRender(t)(h.Control("active"))
	want = `<div class="input checkbox"><input type="hidden" name="active" value="0">` +
		`<input type="checkbox" name="active" id="active" value="1" checked><label for="active">Active</label></div>`
	assertMarkup(t, want, got)

	assertMarkup(t, `<input type="hidden" name="id" id="id">`, mustRender(t)(h.Control("id")))
}

func TestSubmitAndButton(t *testing.T) {
	h := New()
	assertMarkup(t, `<div class="submit"><input type="submit" value="Submit"></div>`, h.Submit(""))
	assertMarkup(t, `<button type="button" class="link">&lt;i&gt;Go&lt;/i&gt;</button>`,
		h.Button("<i>Go</i>", FieldOptions{Attrs: map[string]any{"type": "button", "class": "link"}}))
	assertMarkup(t, `<button type="submit"><i>Go</i></button>`, h.Button("<i>Go</i>", FieldOptions{Escape: mo.Some(false)}))
}
