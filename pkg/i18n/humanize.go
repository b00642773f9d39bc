package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a field name into a label: a trailing "_id" is dropped,
// separators become spaces and words are title cased ("author_id" -> "Author",
// "published_on" -> "Published On").
func Humanize(field string) string {
	field = strings.TrimSpace(field)
	if field != "_id" {
		field = strings.TrimSuffix(field, "_id")
	}
	words := strings.FieldsFunc(field, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(strings.Join(words, " ")))
}

// FieldLabel resolves the label for a dotted field key: the terminal segment
// is humanised and offered as the fallback for the "fields.<segment>" message.
func FieldLabel(t Translator, locale, key string, onMissing MissingHandler) string {
	terminal := key
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		terminal = key[idx+1:]
	}
	fallback := Humanize(terminal)
	if t == nil {
		return fallback
	}
	return Translate(t, locale, "fields."+terminal, fallback, onMissing)
}
