package i18n

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// MapTranslator is an in-memory Translator keyed by locale then message key.
// Messages containing fmt verbs are formatted with the call arguments.
type MapTranslator struct {
	mu       sync.RWMutex
	fallback string
	messages map[string]map[string]string
}

// NewMapTranslator creates a translator. When a key is missing for the
// requested locale the fallback locale is consulted.
func NewMapTranslator(fallback string) *MapTranslator {
	return &MapTranslator{
		fallback: strings.TrimSpace(fallback),
		messages: make(map[string]map[string]string),
	}
}

// Add registers messages for locale.
func (m *MapTranslator) Add(locale string, messages map[string]string) *MapTranslator {
	m.mu.Lock()
	defer m.mu.Unlock()
	catalog, ok := m.messages[locale]
	if !ok {
		catalog = make(map[string]string, len(messages))
		m.messages[locale] = catalog
	}
	for key, msg := range messages {
		catalog[key] = msg
	}
	return m
}

// Locales returns the sorted list of locales with messages.
func (m *MapTranslator) Locales() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	locales := make([]string, 0, len(m.messages))
	for locale := range m.messages {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

func (m *MapTranslator) Translate(locale, key string, args ...any) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, ok := m.messages[locale][key]
	if !ok && m.fallback != "" {
		msg, ok = m.messages[m.fallback][key]
	}
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
	}
	if len(args) > 0 && strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}

// LoadYAML reads a catalog document shaped as locale -> nested keys. Nested
// mappings are flattened with dots ("forms.title").
func (m *MapTranslator) LoadYAML(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("i18n: parse catalog: %w", err)
	}
	for locale, tree := range doc {
		nested, ok := tree.(map[string]any)
		if !ok {
			return fmt.Errorf("i18n: locale %q must map keys to messages", locale)
		}
		flat := make(map[string]string)
		flatten("", nested, flat)
		m.Add(locale, flat)
	}
	return nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flatten(full, nested, out)
			continue
		}
		out[full] = cast.ToString(value)
	}
}
