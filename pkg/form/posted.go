package form

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// PostedData exposes previously submitted values by their HTML name
// ("author[name]").
type PostedData interface {
	Get(name string) (any, bool)
}

// URLValues adapts url-encoded or multipart form posts.
type URLValues url.Values

// Get returns the last value posted for name, so a checkbox that submits its
// hidden "0" sibling and "1" reads as "1". Names ending in "[]" return every
// value, as do plain names only submitted with a "[]" suffix.
func (v URLValues) Get(name string) (any, bool) {
	if base, ok := strings.CutSuffix(name, "[]"); ok {
		if values, ok := v[name]; ok {
			return append([]string(nil), values...), true
		}
		if values, ok := v[base]; ok {
			return append([]string(nil), values...), true
		}
		return nil, false
	}
	if values, ok := v[name]; ok && len(values) > 0 {
		return values[len(values)-1], true
	}
	if values, ok := v[name+"[]"]; ok {
		return append([]string(nil), values...), true
	}
	return nil, false
}

// JSONBody adapts a JSON request body. Names are converted back to dotted
// paths, so "children[0][value]" reads children.0.value.
type JSONBody struct {
	raw string
}

// NewJSONBody wraps a JSON document. Invalid JSON yields an empty body.
func NewJSONBody(data []byte) JSONBody {
	if !gjson.ValidBytes(data) {
		return JSONBody{}
	}
	return JSONBody{raw: string(data)}
}

func (b JSONBody) Get(name string) (any, bool) {
	if b.raw == "" {
		return nil, false
	}
	result := gjson.Get(b.raw, escapePath(DottedKey(name)))
	if !result.Exists() {
		return nil, false
	}
	if result.IsArray() {
		values := make([]string, 0)
		for _, item := range result.Array() {
			values = append(values, item.String())
		}
		return values, true
	}
	return result.Value(), true
}

// escapePath escapes gjson path metacharacters inside each segment.
func escapePath(path string) string {
	replacer := strings.NewReplacer("*", `\*`, "?", `\?`, "#", `\#`, "|", `\|`, "@", `\@`)
	return replacer.Replace(path)
}

type noPostedData struct{}

func (noPostedData) Get(string) (any, bool) { return nil, false }
