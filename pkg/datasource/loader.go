package datasource

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-viewkit/pkg/schema"
	"github.com/goliatone/go-viewkit/pkg/validation"
)

type definitionFile struct {
	Sources map[string]sourceFile `json:"sources" yaml:"sources"`
}

type sourceFile struct {
	PrimaryKey    []string                     `json:"primaryKey" yaml:"primaryKey"`
	Columns       map[string]any               `json:"columns" yaml:"columns"`
	Rules         map[string][]validation.Rule `json:"rules" yaml:"rules"`
	Relationships []relationshipFile           `json:"relationships" yaml:"relationships"`
}

type relationshipFile struct {
	Kind       string `json:"kind" yaml:"kind"`
	Property   string `json:"property" yaml:"property"`
	ForeignKey string `json:"foreignKey" yaml:"foreignKey"`
	Target     string `json:"target" yaml:"target"`
}

// LoadFS reads definition files from fsys and registers every declared source
// into a new registry.
func LoadFS(fsys fs.FS, paths ...string) (*Registry, error) {
	registry := NewRegistry()
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("datasource: read %s: %w", path, err)
		}
		if err := LoadInto(registry, data, path); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Load parses a single JSON or YAML definition document.
func Load(data []byte, source string) (*Registry, error) {
	registry := NewRegistry()
	if err := LoadInto(registry, data, source); err != nil {
		return nil, err
	}
	return registry, nil
}

// LoadInto parses a definition document and registers its sources. Relationship
// targets may reference sources declared earlier in the same registry.
func LoadInto(registry *Registry, data []byte, source string) error {
	doc, err := parseDefinition(data, source)
	if err != nil {
		return err
	}

	names := lo.Keys(doc.Sources)
	sort.Strings(names)

	built := make(map[string]*Source, len(names))
	for _, name := range names {
		src, err := buildSource(name, doc.Sources[name])
		if err != nil {
			return fmt.Errorf("datasource: %s: source %q: %w", source, name, err)
		}
		built[name] = src
	}

	for _, name := range names {
		for _, rel := range doc.Sources[name].Relationships {
			kind, ok := normalizeRelationshipKind(rel.Kind)
			if !ok {
				return fmt.Errorf("datasource: %s: source %q: unknown relationship kind %q", source, name, rel.Kind)
			}
			target, err := lookupTarget(registry, built, rel.Target)
			if err != nil {
				return fmt.Errorf("datasource: %s: source %q: %w", source, name, err)
			}
			built[name].Relate(kind, rel.Property, rel.ForeignKey, target)
		}
	}

	for _, name := range names {
		if err := registry.Register(built[name]); err != nil {
			return err
		}
	}
	return nil
}

func parseDefinition(data []byte, source string) (definitionFile, error) {
	var doc definitionFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return definitionFile{}, fmt.Errorf("datasource: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return definitionFile{}, fmt.Errorf("datasource: parse %s: invalid JSON or YAML", source)
}

func buildSource(name string, raw sourceFile) (*Source, error) {
	columns := make(map[string]schema.ColumnDescriptor, len(raw.Columns))
	for field, def := range raw.Columns {
		column, err := parseColumn(def)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field, err)
		}
		columns[field] = column
	}

	rules := validation.NewRuleSet()
	for field, fieldRules := range raw.Rules {
		rules.Add(field, fieldRules...)
	}

	return New(name, schema.NewTable(columns, raw.PrimaryKey...), rules), nil
}

// parseColumn accepts either a declaration string or a mapping with a type
// declaration plus default/null/values keys.
func parseColumn(def any) (schema.ColumnDescriptor, error) {
	switch value := def.(type) {
	case string:
		return schema.ParseColumnType(value)
	case map[string]any:
		decl, err := cast.ToStringE(value["type"])
		if err != nil || strings.TrimSpace(decl) == "" {
			return schema.ColumnDescriptor{}, fmt.Errorf("type declaration is required")
		}
		column, err := schema.ParseColumnType(decl)
		if err != nil {
			return schema.ColumnDescriptor{}, err
		}
		column.Default = value["default"]
		column.Null = cast.ToBool(value["null"])
		if unsigned, ok := value["unsigned"]; ok {
			column.Unsigned = cast.ToBool(unsigned)
		}
		if members, ok := value["values"]; ok {
			column.Values = cast.ToStringSlice(members)
		}
		return column, nil
	default:
		return schema.ColumnDescriptor{}, fmt.Errorf("unsupported column definition %T", def)
	}
}

func lookupTarget(registry *Registry, built map[string]*Source, name string) (DataSource, error) {
	name = strings.TrimSpace(name)
	if target, ok := built[name]; ok {
		return target, nil
	}
	if registry != nil && registry.Has(name) {
		return registry.Get(name)
	}
	return nil, fmt.Errorf("relationship target %q is not declared", name)
}

func normalizeRelationshipKind(raw string) (RelationshipKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "belongsto":
		return RelationshipBelongsTo, true
	case "hasone":
		return RelationshipHasOne, true
	case "hasmany":
		return RelationshipHasMany, true
	case "belongstomany":
		return RelationshipBelongsToMany, true
	default:
		return "", false
	}
}
