// Package template is the seam between views and a template engine. The
// gotemplate subpackage implements it on pongo2.
package template

import "io"

// Executor renders a template by name. Names are paths relative to the
// engine roots and the extension is optional.
type Executor interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

// TemplateRenderer is the full engine surface used at bootstrap: inline
// rendering, filters and globals shared by every template.
type TemplateRenderer interface {
	Executor

	// Render treats name as inline source when it contains template
	// delimiters and as a template path otherwise.
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(source string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
	Extension() string
}
