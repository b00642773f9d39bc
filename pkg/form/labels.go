package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/mo"

	"github.com/goliatone/go-viewkit/pkg/i18n"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// labelSanitizer allows inline formatting markup in labels and buttons
// rendered with Escape set to false.
func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		inline := []string{"span", "strong", "em", "b", "i", "small", "abbr", "code", "sup", "sub"}
		policy.AllowElements(inline...)
		policy.AllowAttrs("class", "title").OnElements(inline...)
		labelPolicy = policy
	})
	return labelPolicy
}

func labelText(text string, escape bool) string {
	if escape {
		return html.EscapeString(text)
	}
	return strings.TrimSpace(labelSanitizer().Sanitize(text))
}

// Label renders a label for key. The text defaults to the humanised field
// name, translated when a translator is configured.
func (h *Helper) Label(key string, opts ...FieldOptions) string {
	o := mergeOptions(opts)
	text := o.Label.OrElse(h.label(key))
	attrs := newAttrs().set("for", o.ID.OrElse(FieldID(key)))
	attrs.extra(o.Attrs)
	return "<label" + attrs.String() + ">" + labelText(text, o.Escape.OrElse(true)) + "</label>"
}

// Control renders a wrapped field: a label and the input inside a div whose
// class names the input type. Hidden fields render bare.
func (h *Helper) Control(key string, opts ...FieldOptions) (string, error) {
	o := mergeOptions(opts)
	kind, ok := o.Type.Get()
	if !ok {
		kind = h.inferType(key)
	}
	o.Type = mo.Some(kind)

	input, err := h.Input(key, o)
	if err != nil {
		return "", err
	}
	if kind == TypeHidden {
		return input, nil
	}

	classes := "input " + string(kind)
	if o.Required.OrElse(h.context.IsRequired(key)) {
		classes += " required"
	}

	labelOpts := FieldOptions{Label: o.Label, ID: o.ID, Escape: o.Escape}
	var label string
	if kind == TypeRadio {
		label = "<label>" + labelText(o.Label.OrElse(h.label(key)), o.Escape.OrElse(true)) + "</label>"
	} else {
		label = h.Label(key, labelOpts)
	}

	var b strings.Builder
	b.WriteString(`<div class="` + html.EscapeString(classes) + `">`)
	if kind == TypeCheckbox {
		b.WriteString(input)
		b.WriteString(label)
	} else {
		b.WriteString(label)
		b.WriteString(input)
	}
	b.WriteString("</div>")
	return b.String(), nil
}

// Submit renders a submit input wrapped in a div. An empty caption uses the
// "actions.submit" message, falling back to "Submit".
func (h *Helper) Submit(caption string, opts ...FieldOptions) string {
	o := mergeOptions(opts)
	if strings.TrimSpace(caption) == "" {
		caption = h.translate("actions.submit", "Submit")
	}
	attrs := newAttrs().set("type", "submit").set("value", caption)
	attrs.extra(o.Attrs)
	return `<div class="submit"><input` + attrs.String() + `></div>`
}

// Button renders a button. The "type" attribute defaults to submit and the
// title is escaped unless Escape is false.
func (h *Helper) Button(title string, opts ...FieldOptions) string {
	o := mergeOptions(opts)
	attrs := newAttrs()
	if kind, ok := o.Attrs["type"]; ok {
		attrs.set("type", stringValue(kind))
	} else {
		attrs.set("type", "submit")
	}
	attrs.extra(o.Attrs)
	return "<button" + attrs.String() + ">" + labelText(title, o.Escape.OrElse(true)) + "</button>"
}

func (h *Helper) translate(key, fallback string) string {
	if h.translator == nil {
		return fallback
	}
	return i18n.Translate(h.translator, h.locale, key, fallback, h.onMissing)
}
