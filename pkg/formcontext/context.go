package formcontext

import "github.com/samber/mo"

// Context answers per-field rendering constraints for a form. Keys are dotted
// field paths ("author.name", "comments.0.body").
type Context interface {
	Type(key string) string
	Min(key string) mo.Option[float64]
	Max(key string) mo.Option[float64]
	Step(key string) mo.Option[string]
	MaxLength(key string) mo.Option[int]
	DefaultValue(key string) mo.Option[any]
	IsRequired(key string) bool
	Value(key string) (any, bool)
	// Choices returns the declared members of enum and set columns.
	Choices(key string) []string
	IsPrimaryKey(key string) bool
}

// Null is the context used when a form has no backing record.
type Null struct{}

// NullContext is the shared stateless instance.
var NullContext Context = Null{}

func (Null) Type(string) string { return "text" }
func (Null) Min(string) mo.Option[float64] { return mo.None[float64]() }
func (Null) Max(string) mo.Option[float64] { return mo.None[float64]() }
func (Null) Step(string) mo.Option[string] { return mo.None[string]() }
func (Null) MaxLength(string) mo.Option[int] { return mo.None[int]() }
func (Null) DefaultValue(string) mo.Option[any] { return mo.None[any]() }
func (Null) IsRequired(string) bool { return false }
func (Null) Value(string) (any, bool) { return nil, false }
func (Null) Choices(string) []string { return nil }
func (Null) IsPrimaryKey(string) bool { return false }
