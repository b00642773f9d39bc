package form

import "strings"

// InputType names a field rendering method.
type InputType string

const (
	TypeText     InputType = "text"
	TypeTextarea InputType = "textarea"
	TypeNumber   InputType = "number"
	TypeEmail    InputType = "email"
	TypePassword InputType = "password"
	TypeTel      InputType = "tel"
	TypeURL      InputType = "url"
	TypeSearch   InputType = "search"
	TypeHidden   InputType = "hidden"
	TypeCheckbox InputType = "checkbox"
	TypeRadio    InputType = "radio"
	TypeSelect   InputType = "select"
	TypeDate     InputType = "date"
	TypeTime     InputType = "time"
	TypeDatetime InputType = "datetime"
	TypeFile     InputType = "file"
)

type renderFunc func(h *Helper, key string, opts FieldOptions) (string, error)

// inputMethods is the dispatch table used by Input.
var inputMethods map[InputType]renderFunc

func init() {
	inputMethods = map[InputType]renderFunc{
		TypeText:     textual(TypeText),
		TypeEmail:    textual(TypeEmail),
		TypePassword: textual(TypePassword),
		TypeTel:      textual(TypeTel),
		TypeURL:      textual(TypeURL),
		TypeSearch:   textual(TypeSearch),
		TypeNumber:   (*Helper).number,
		TypeTextarea: (*Helper).textarea,
		TypeHidden:   (*Helper).hidden,
		TypeCheckbox: (*Helper).checkbox,
		TypeRadio:    (*Helper).radio,
		TypeSelect:   (*Helper).selectBox,
		TypeDate:     temporal(TypeDate),
		TypeTime:     temporal(TypeTime),
		TypeDatetime: temporal(TypeDatetime),
		TypeFile:     (*Helper).file,
	}
}

func textual(kind InputType) renderFunc {
	return func(h *Helper, key string, opts FieldOptions) (string, error) {
		return h.input(kind, key, opts)
	}
}

func temporal(kind InputType) renderFunc {
	return func(h *Helper, key string, opts FieldOptions) (string, error) {
		return h.dateTime(kind, key, opts)
	}
}

// ParseInputType normalises a type name. "datetime-local" maps to
// TypeDatetime. The boolean is false for unknown names.
func ParseInputType(raw string) (InputType, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "datetime-local" {
		name = string(TypeDatetime)
	}
	kind := InputType(name)
	_, ok := inputMethods[kind]
	return kind, ok
}

func (t InputType) textLike() bool {
	switch t {
	case TypeText, TypeTextarea, TypeEmail, TypePassword, TypeTel, TypeURL, TypeSearch:
		return true
	default:
		return false
	}
}

func (t InputType) htmlType() string {
	if t == TypeDatetime {
		return "datetime-local"
	}
	return string(t)
}
