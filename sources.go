package viewkit

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-viewkit/pkg/datasource"
)

// LoadSources builds a data-source registry from definition files (YAML or
// JSON) and OpenAPI documents read from fsys. Names must be unique across all
// inputs.
func LoadSources(ctx context.Context, fsys fs.FS, definitions, openapi []string) (*datasource.Registry, error) {
	registry, err := datasource.LoadFS(fsys, definitions...)
	if err != nil {
		return nil, err
	}

	for _, path := range openapi {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("viewkit: read %s: %w", path, err)
		}
		docSources, err := datasource.FromOpenAPI(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("viewkit: %s: %w", path, err)
		}
		for _, name := range docSources.Names() {
			source, err := docSources.Get(name)
			if err != nil {
				return nil, err
			}
			if err := registry.Register(source); err != nil {
				return nil, fmt.Errorf("viewkit: %s: %w", path, err)
			}
		}
	}
	return registry, nil
}
