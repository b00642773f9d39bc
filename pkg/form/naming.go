package form

import (
	"strings"
)

// FieldID derives a DOM id from a dotted key. Dots and underscores become
// hyphens unless they directly follow a dot, and the result is lower cased
// ("children.0.value" -> "children-0-value", "tags._ids" -> "tags-_ids").
func FieldID(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if (ch == '.' || ch == '_') && (i == 0 || key[i-1] != '.') {
			b.WriteByte('-')
			continue
		}
		b.WriteByte(ch)
	}
	return strings.ToLower(b.String())
}

// FieldName converts a dotted key to bracket notation ("a.b.c" -> "a[b][c]").
func FieldName(key string) string {
	segments := strings.Split(key, ".")
	if len(segments) == 1 {
		return key
	}
	var b strings.Builder
	b.WriteString(segments[0])
	for _, segment := range segments[1:] {
		b.WriteByte('[')
		b.WriteString(segment)
		b.WriteByte(']')
	}
	return b.String()
}

// DottedKey is the inverse of FieldName. A trailing "[]" is dropped.
func DottedKey(name string) string {
	name = strings.TrimSuffix(name, "[]")
	if !strings.Contains(name, "[") {
		return name
	}
	replacer := strings.NewReplacer("][", ".", "[", ".", "]", "")
	return replacer.Replace(name)
}
