package datasource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/goliatone/go-viewkit/pkg/schema"
	"github.com/goliatone/go-viewkit/pkg/validation"
)

const componentRefPrefix = "#/components/schemas/"

// FromOpenAPI converts the component schemas of an OpenAPI 3 document into
// data sources. Object properties referencing another component become
// belongsTo associations (foreign key "<property>_id"); arrays of references
// become hasMany associations.
func FromOpenAPI(ctx context.Context, data []byte) (*Registry, error) {
	if len(data) == 0 {
		return nil, errors.New("datasource: openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("datasource: load openapi document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, errors.New("datasource: openapi document declares no component schemas")
	}

	names := lo.Keys(doc.Components.Schemas)
	sort.Strings(names)

	built := make(map[string]*Source, len(names))
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		built[name] = sourceFromSchema(name, ref.Value)
	}

	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		for _, property := range sortedProperties(ref.Value) {
			prop := ref.Value.Properties[property]
			if target, ok := built[componentName(prop.Ref)]; ok {
				built[name].BelongsTo(property, property+"_id", target)
				continue
			}
			if prop.Value != nil && prop.Value.Items != nil {
				if target, ok := built[componentName(prop.Value.Items.Ref)]; ok {
					built[name].HasMany(property, lowerFirst(name)+"_id", target)
				}
			}
		}
	}

	registry := NewRegistry()
	for _, name := range names {
		if src, ok := built[name]; ok {
			if err := registry.Register(src); err != nil {
				return nil, err
			}
		}
	}
	return registry, nil
}

func sourceFromSchema(name string, s *openapi3.Schema) *Source {
	columns := make(map[string]schema.ColumnDescriptor)
	rules := validation.NewRuleSet()
	required := lo.SliceToMap(s.Required, func(field string) (string, struct{}) {
		return field, struct{}{}
	})

	for _, property := range sortedProperties(s) {
		ref := s.Properties[property]
		if ref == nil || ref.Value == nil || ref.Ref != "" {
			continue
		}
		column, ok := columnFromSchema(ref.Value)
		if !ok {
			continue
		}
		columns[property] = column
		if _, ok := required[property]; ok {
			rules.Add(property, validation.RequiredRule())
		}
		rules.Add(property, rulesFromSchema(ref.Value)...)
	}

	var primary []string
	if _, ok := columns["id"]; ok {
		primary = []string{"id"}
	}
	return New(name, schema.NewTable(columns, primary...), rules)
}

func columnFromSchema(s *openapi3.Schema) (schema.ColumnDescriptor, bool) {
	column := schema.ColumnDescriptor{Default: quoteDefault(s.Default), Null: s.Nullable}
	switch {
	case s.Type == nil:
		return schema.ColumnDescriptor{}, false
	case s.Type.Is("integer"):
		column.Type = schema.TypeInt
		if s.Format == "int64" {
			column.Type = schema.TypeBigInt
		}
		column.Unsigned = s.Min != nil && *s.Min >= 0
	case s.Type.Is("number"):
		switch s.Format {
		case "float":
			column.Type = schema.TypeFloat
		case "double":
			column.Type = schema.TypeDouble
		default:
			column.Type = schema.TypeDecimal
		}
	case s.Type.Is("boolean"):
		column.Type = schema.TypeBoolean
	case s.Type.Is("string"):
		switch {
		case len(s.Enum) > 0:
			column.Type = schema.TypeEnum
			column.Values = lo.Map(s.Enum, func(v any, _ int) string { return fmt.Sprint(v) })
		case s.Format == "date":
			column.Type = schema.TypeDate
		case s.Format == "date-time":
			column.Type = schema.TypeDatetime
		case s.Format == "time":
			column.Type = schema.TypeTime
		case s.Format == "uuid":
			column.Type = schema.TypeUUID
		case s.MaxLength != nil:
			column.Type = schema.TypeVarchar
			column.Length = mo.Some(int(*s.MaxLength))
		default:
			column.Type = schema.TypeText
		}
	default:
		return schema.ColumnDescriptor{}, false
	}
	return column, true
}

func rulesFromSchema(s *openapi3.Schema) []validation.Rule {
	var rules []validation.Rule
	if s.Min != nil {
		if s.ExclusiveMin {
			rules = append(rules, validation.GreaterThan(*s.Min).AllowEmpty())
		} else {
			rules = append(rules, validation.GreaterThanOrEquals(*s.Min).AllowEmpty())
		}
	}
	if s.Max != nil {
		if s.ExclusiveMax {
			rules = append(rules, validation.LessThan(*s.Max).AllowEmpty())
		} else {
			rules = append(rules, validation.LessThanOrEquals(*s.Max).AllowEmpty())
		}
	}
	if s.MaxLength != nil {
		rules = append(rules, validation.MaxLengthRule(*s.MaxLength).AllowEmpty())
	}
	return rules
}

// quoteDefault renders string defaults as quoted literals so they decode the
// same way stored column defaults do.
func quoteDefault(value any) any {
	if str, ok := value.(string); ok {
		return "'" + strings.ReplaceAll(str, "'", "''") + "'"
	}
	return value
}

func sortedProperties(s *openapi3.Schema) []string {
	names := lo.Keys(s.Properties)
	sort.Strings(names)
	return names
}

func componentName(ref string) string {
	if !strings.HasPrefix(ref, componentRefPrefix) {
		return ""
	}
	return strings.TrimPrefix(ref, componentRefPrefix)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
