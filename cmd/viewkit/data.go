package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-viewkit/pkg/entity"
)

// sourceKey marks a top level mapping in a data file as a record of the
// named data source.
const sourceKey = "_source"

// loadVars reads template variables from a YAML or JSON file. An empty path
// yields no variables.
func loadVars(path string) (map[string]any, error) {
	vars := map[string]any{}
	if strings.TrimSpace(path) == "" {
		return vars, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	for name, value := range vars {
		if record, ok := asRecord(value); ok {
			vars[name] = record
		}
	}
	return vars, nil
}

func asRecord(value any) (*entity.Entity, bool) {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	source, ok := fields[sourceKey].(string)
	if !ok || strings.TrimSpace(source) == "" {
		return nil, false
	}
	delete(fields, sourceKey)
	return entity.New(source, fields), true
}
