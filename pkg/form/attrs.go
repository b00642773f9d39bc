package form

import (
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// attrList accumulates attributes in emission order.
type attrList struct {
	names  []string
	values map[string]attrValue
}

type attrValue struct {
	value string
	bare  bool
}

func newAttrs() *attrList {
	return &attrList{values: make(map[string]attrValue)}
}

func (a *attrList) set(name, value string) *attrList {
	if _, exists := a.values[name]; !exists {
		a.names = append(a.names, name)
	}
	a.values[name] = attrValue{value: value}
	return a
}

func (a *attrList) flag(name string) *attrList {
	if _, exists := a.values[name]; !exists {
		a.names = append(a.names, name)
	}
	a.values[name] = attrValue{bare: true}
	return a
}

func (a *attrList) has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// extra appends caller attributes sorted by name, applying the cleaning
// policy: "default" is stripped, false is dropped unless the key is a data
// attribute, true renders as a bare attribute.
func (a *attrList) extra(attrs map[string]any) *attrList {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "default" || key == "" || a.has(key) {
			continue
		}
		value := attrs[key]
		if b, ok := value.(bool); ok {
			switch {
			case strings.HasPrefix(key, "data-"):
				a.set(key, strconv.FormatBool(b))
			case b:
				a.flag(key)
			}
			continue
		}
		if value == nil {
			continue
		}
		a.set(key, cast.ToString(value))
	}
	return a
}

func (a *attrList) String() string {
	var b strings.Builder
	for _, name := range a.names {
		attr := a.values[name]
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(name))
		if attr.bare {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.value))
		b.WriteByte('"')
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stringValue renders a scalar field value for an attribute or text node.
func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case bool:
		if v {
			return "1"
		}
		return "0"
	}
	return cast.ToString(value)
}
