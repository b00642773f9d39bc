package i18n

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingTranslator is reported when a lookup happens with no translator configured.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
	// ErrMissingTranslation is reported when a key has no message for the locale.
	ErrMissingTranslation = errors.New("i18n: missing translation")
)

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingHandler decides the string returned when a translation fails.
type MissingHandler func(locale, key string, args []any, err error) string

// MissingDefault returns the "default" entry of a map argument when present,
// otherwise the key itself.
func MissingDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if values, ok := arg.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Translate looks key up through t and falls back to onMissing (or
// MissingDefault) with fallback offered as the default.
func Translate(t Translator, locale, key, fallback string, onMissing MissingHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = MissingDefault
	}
	args := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	if err == nil {
		err = fmt.Errorf("%w: %s", ErrMissingTranslation, key)
	}
	return onMissing(locale, key, args, err)
}
