package form

import (
	"github.com/samber/mo"
)

// Choice is one option of a select or radio group.
type Choice struct {
	Value string
	Label string
}

// FieldOptions is the per-call options bag. Absent entries are filled from
// the active form context; present entries are never overwritten.
type FieldOptions struct {
	Type        mo.Option[InputType]
	ID          mo.Option[string]
	Name        mo.Option[string]
	Value       mo.Option[any]
	Default     mo.Option[any]
	Placeholder mo.Option[string]
	Label       mo.Option[string]
	Required    mo.Option[bool]
	Min         mo.Option[float64]
	Max         mo.Option[float64]
	Step        mo.Option[string]
	MaxLength   mo.Option[int]
	// Checked overrides the checked state derived from the current value.
	Checked mo.Option[bool]
	// HiddenField controls the hidden sibling emitted before checkboxes and
	// radio groups. Defaults to true.
	HiddenField mo.Option[bool]
	// Empty adds a leading empty option to selects with the given label.
	Empty    mo.Option[string]
	Multiple mo.Option[bool]
	// Escape controls label escaping; false sanitises the label as markup.
	Escape mo.Option[bool]
	// Choices lists select and radio options. Nil means "derive".
	Choices []Choice
	// Attrs holds extra attributes. Boolean false values are dropped unless
	// the key starts with "data-"; the key "default" is always stripped.
	Attrs map[string]any
}

// FillDefaults returns explicit with every absent entry taken from computed.
// Extra attributes are merged with explicit keys winning.
func FillDefaults(explicit, computed FieldOptions) FieldOptions {
	out := explicit
	out.Type = orElse(explicit.Type, computed.Type)
	out.ID = orElse(explicit.ID, computed.ID)
	out.Name = orElse(explicit.Name, computed.Name)
	out.Value = orElse(explicit.Value, computed.Value)
	out.Default = orElse(explicit.Default, computed.Default)
	out.Placeholder = orElse(explicit.Placeholder, computed.Placeholder)
	out.Label = orElse(explicit.Label, computed.Label)
	out.Required = orElse(explicit.Required, computed.Required)
	out.Min = orElse(explicit.Min, computed.Min)
	out.Max = orElse(explicit.Max, computed.Max)
	out.Step = orElse(explicit.Step, computed.Step)
	out.MaxLength = orElse(explicit.MaxLength, computed.MaxLength)
	out.Checked = orElse(explicit.Checked, computed.Checked)
	out.HiddenField = orElse(explicit.HiddenField, computed.HiddenField)
	out.Empty = orElse(explicit.Empty, computed.Empty)
	out.Multiple = orElse(explicit.Multiple, computed.Multiple)
	out.Escape = orElse(explicit.Escape, computed.Escape)
	if explicit.Choices == nil {
		out.Choices = computed.Choices
	}
	if len(computed.Attrs) > 0 {
		merged := make(map[string]any, len(computed.Attrs)+len(explicit.Attrs))
		for key, value := range computed.Attrs {
			merged[key] = value
		}
		for key, value := range explicit.Attrs {
			merged[key] = value
		}
		out.Attrs = merged
	}
	return out
}

// mergeOptions folds variadic options; later entries take precedence.
func mergeOptions(opts []FieldOptions) FieldOptions {
	var out FieldOptions
	for _, opt := range opts {
		out = FillDefaults(opt, out)
	}
	return out
}

func orElse[T any](explicit, computed mo.Option[T]) mo.Option[T] {
	if explicit.IsPresent() {
		return explicit
	}
	return computed
}

// FormOptions configures Open.
type FormOptions struct {
	// Action is the submission URL. Empty uses the helper's default action.
	Action string
	// Method defaults to "post". PUT, PATCH and DELETE are submitted as POST
	// with a hidden _method input.
	Method string
	ID     string
	// Multipart sets the multipart/form-data encoding for file uploads.
	Multipart bool
	Attrs     map[string]any
}
