package viewkit

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embeddedTemplates embed.FS

// EmbeddedTemplates exposes the built-in layouts and elements. Kits search
// them after every configured root, so applications override them by
// shipping files with the same names.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
