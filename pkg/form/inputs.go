package form

import (
	"html"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cast"
)

const (
	layoutDate     = "2006-01-02"
	layoutTime     = "15:04"
	layoutDatetime = "2006-01-02T15:04"
)

func (h *Helper) prepare(kind InputType, key string, opts FieldOptions) FieldOptions {
	o := FillDefaults(opts, h.computed(kind, key))
	o.Type = mo.Some(kind)
	return o
}

func identity(o FieldOptions) *attrList {
	attrs := newAttrs()
	if name := o.Name.OrEmpty(); name != "" {
		attrs.set("name", name)
	}
	if id := o.ID.OrEmpty(); id != "" {
		attrs.set("id", id)
	}
	return attrs
}

func constraints(attrs *attrList, o FieldOptions) {
	if placeholder := o.Placeholder.OrEmpty(); placeholder != "" {
		attrs.set("placeholder", placeholder)
	}
	if o.Required.OrEmpty() {
		attrs.flag("required")
	}
	if v, ok := o.Min.Get(); ok {
		attrs.set("min", formatFloat(v))
	}
	if v, ok := o.Max.Get(); ok {
		attrs.set("max", formatFloat(v))
	}
	if v, ok := o.Step.Get(); ok && v != "" {
		attrs.set("step", v)
	}
	if v, ok := o.MaxLength.Get(); ok {
		attrs.set("maxlength", cast.ToString(v))
	}
}

func (h *Helper) input(kind InputType, key string, opts FieldOptions) (string, error) {
	o := h.prepare(kind, key, opts)
	attrs := newAttrs().set("type", kind.htmlType())
	mergeAttrs(attrs, identity(o))
	if value, ok := h.valueOf(key, o); ok && value != nil {
		attrs.set("value", stringValue(value))
	}
	constraints(attrs, o)
	attrs.extra(o.Attrs)
	return "<input" + attrs.String() + ">", nil
}

func (h *Helper) number(key string, opts FieldOptions) (string, error) {
	return h.input(TypeNumber, key, opts)
}

func (h *Helper) hidden(key string, opts FieldOptions) (string, error) {
	return h.input(TypeHidden, key, opts)
}

func (h *Helper) textarea(key string, opts FieldOptions) (string, error) {
	o := h.prepare(TypeTextarea, key, opts)
	attrs := identity(o)
	constraints(attrs, o)
	attrs.extra(o.Attrs)

	content := ""
	if value, ok := h.valueOf(key, o); ok {
		content = stringValue(value)
	}
	return "<textarea" + attrs.String() + ">" + html.EscapeString(content) + "</textarea>", nil
}

func (h *Helper) file(key string, opts FieldOptions) (string, error) {
	o := h.prepare(TypeFile, key, opts)
	attrs := newAttrs().set("type", "file")
	mergeAttrs(attrs, identity(o))
	constraints(attrs, o)
	attrs.extra(o.Attrs)
	return "<input" + attrs.String() + ">", nil
}

// checkbox renders a hidden "0" sibling followed by the checkbox. The Value
// option is the submitted value (default "1"); the checked state comes from
// the current value unless Checked is given.
func (h *Helper) checkbox(key string, opts FieldOptions) (string, error) {
	o := h.prepare(TypeCheckbox, key, opts)
	submitted := stringValue(o.Value.OrElse("1"))

	checked, explicit := o.Checked.Get()
	if !explicit {
		if current, ok := h.currentValue(key, o); ok {
			checked = isChecked(current, submitted)
		}
	}

	var b strings.Builder
	if o.HiddenField.OrElse(true) {
		hiddenAttrs := newAttrs().set("type", "hidden").set("name", o.Name.OrEmpty()).set("value", "0")
		b.WriteString("<input" + hiddenAttrs.String() + ">")
	}

	attrs := newAttrs().set("type", "checkbox")
	mergeAttrs(attrs, identity(o))
	attrs.set("value", submitted)
	if checked {
		attrs.flag("checked")
	}
	constraints(attrs, o)
	attrs.extra(o.Attrs)
	b.WriteString("<input" + attrs.String() + ">")
	return b.String(), nil
}

func isChecked(current any, submitted string) bool {
	if current == nil {
		return false
	}
	if stringValue(current) == submitted {
		return true
	}
	if submitted == "1" {
		truthy, err := cast.ToBoolE(current)
		return err == nil && truthy
	}
	return false
}

// radio renders a hidden "" sibling followed by one labelled radio per choice.
func (h *Helper) radio(key string, opts FieldOptions) (string, error) {
	o := h.prepare(TypeRadio, key, opts)
	choices := h.choices(key, o)
	current := ""
	if value, ok := h.valueOf(key, o); ok {
		current = stringValue(value)
	}

	var b strings.Builder
	if o.HiddenField.OrElse(true) {
		hiddenAttrs := newAttrs().set("type", "hidden").set("name", o.Name.OrEmpty()).set("value", "")
		b.WriteString("<input" + hiddenAttrs.String() + ">")
	}
	for _, choice := range choices {
		id := o.ID.OrEmpty() + "-" + FieldID(choice.Value)
		attrs := newAttrs().
			set("type", "radio").
			set("name", o.Name.OrEmpty()).
			set("id", id).
			set("value", choice.Value)
		if choice.Value == current {
			attrs.flag("checked")
		}
		if o.Required.OrEmpty() {
			attrs.flag("required")
		}
		attrs.extra(o.Attrs)
		b.WriteString(`<label for="` + html.EscapeString(id) + `">`)
		b.WriteString("<input" + attrs.String() + ">")
		b.WriteString(html.EscapeString(choiceLabel(choice)))
		b.WriteString("</label>")
	}
	return b.String(), nil
}

// selectBox renders a select. Options come from Choices, then the declared
// enum members, then one unlabelled option per current value.
func (h *Helper) selectBox(key string, opts FieldOptions) (string, error) {
	o := h.prepare(TypeSelect, key, opts)
	multiple := o.Multiple.OrEmpty()
	name := o.Name.OrEmpty()
	if multiple && !strings.HasSuffix(name, "[]") {
		name += "[]"
	}

	var selected []string
	if value, ok := h.valueOf(key, o); ok {
		selected = stringValues(value)
	}

	choices := h.choices(key, o)
	if choices == nil {
		choices = lo.FilterMap(lo.Uniq(selected), func(value string, _ int) (Choice, bool) {
			return Choice{Value: value}, value != ""
		})
	}

	attrs := newAttrs().set("name", name)
	if id := o.ID.OrEmpty(); id != "" {
		attrs.set("id", id)
	}
	if o.Required.OrEmpty() {
		attrs.flag("required")
	}
	if multiple {
		attrs.flag("multiple")
	}
	attrs.extra(o.Attrs)

	var b strings.Builder
	b.WriteString("<select" + attrs.String() + ">")
	if empty, ok := o.Empty.Get(); ok {
		b.WriteString(`<option value="">` + html.EscapeString(empty) + "</option>")
	}
	for _, choice := range choices {
		b.WriteString(`<option value="` + html.EscapeString(choice.Value) + `"`)
		if lo.Contains(selected, choice.Value) {
			b.WriteString(" selected")
		}
		b.WriteString(">" + html.EscapeString(choice.Label) + "</option>")
	}
	b.WriteString("</select>")
	return b.String(), nil
}

func (h *Helper) choices(key string, o FieldOptions) []Choice {
	if o.Choices != nil {
		return o.Choices
	}
	members := h.context.Choices(key)
	if len(members) == 0 {
		return nil
	}
	return lo.Map(members, func(member string, _ int) Choice {
		return Choice{Value: member, Label: member}
	})
}

func choiceLabel(choice Choice) string {
	if choice.Label != "" {
		return choice.Label
	}
	return choice.Value
}

func stringValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		return lo.Map(v, func(item any, _ int) string { return stringValue(item) })
	default:
		return []string{stringValue(value)}
	}
}

// dateTime reformats the current value to the canonical HTML5 string and
// omits the value when it does not parse.
func (h *Helper) dateTime(kind InputType, key string, opts FieldOptions) (string, error) {
	o := h.prepare(kind, key, opts)
	attrs := newAttrs().set("type", kind.htmlType())
	mergeAttrs(attrs, identity(o))
	if value, ok := h.valueOf(key, o); ok {
		if formatted, ok := formatTemporal(kind, value); ok {
			attrs.set("value", formatted)
		}
	}
	constraints(attrs, o)
	attrs.extra(o.Attrs)
	return "<input" + attrs.String() + ">", nil
}

func formatTemporal(kind InputType, value any) (string, bool) {
	parsed, ok := parseTemporal(value)
	if !ok {
		return "", false
	}
	switch kind {
	case TypeDate:
		return parsed.Format(layoutDate), true
	case TypeTime:
		return parsed.Format(layoutTime), true
	default:
		return parsed.Format(layoutDatetime), true
	}
}

func parseTemporal(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{layoutDatetime, "15:04:05", layoutTime} {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
		value = trimmed
	}
	parsed, err := cast.ToTimeE(value)
	if err != nil || parsed.IsZero() {
		return time.Time{}, false
	}
	return parsed, true
}

func mergeAttrs(dst, src *attrList) {
	for _, name := range src.names {
		value := src.values[name]
		if value.bare {
			dst.flag(name)
			continue
		}
		dst.set(name, value.value)
	}
}
