package datasource

import (
	"strings"
	"sync"

	"github.com/goliatone/go-viewkit/pkg/schema"
	"github.com/goliatone/go-viewkit/pkg/validation"
)

// RelationshipKind enumerates the supported association types.
type RelationshipKind string

const (
	RelationshipBelongsTo     RelationshipKind = "belongsTo"
	RelationshipHasOne        RelationshipKind = "hasOne"
	RelationshipHasMany       RelationshipKind = "hasMany"
	RelationshipBelongsToMany RelationshipKind = "belongsToMany"
)

// DataSource abstracts a persisted record type: its columns, declared rules
// and associations.
type DataSource interface {
	Name() string
	Schema() schema.Provider
	Validator() validation.Provider
	Relationships() []Relationship
}

// Relationship is a named association from one data source to another.
// Property is the key used for the related data in nested records.
type Relationship struct {
	Kind       RelationshipKind
	Property   string
	ForeignKey string
	Target     DataSource
}

// IsOwningSide reports whether the foreign key lives on the source side.
func (r Relationship) IsOwningSide() bool {
	return r.Kind == RelationshipBelongsTo
}

// HasMultiple reports whether the association addresses a collection.
func (r Relationship) HasMultiple() bool {
	return r.Kind == RelationshipHasMany || r.Kind == RelationshipBelongsToMany
}

// FindRelationship returns the association exposed under property.
func FindRelationship(source DataSource, property string) (Relationship, bool) {
	if source == nil {
		return Relationship{}, false
	}
	for _, rel := range source.Relationships() {
		if rel.Property == property {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Source is the in-memory DataSource used by loaders and tests.
type Source struct {
	name  string
	table *schema.Table
	rules *validation.RuleSet

	mu            sync.RWMutex
	relationships []Relationship
}

// New creates a Source. A nil table or rule set is replaced by an empty one.
func New(name string, table *schema.Table, rules *validation.RuleSet) *Source {
	if table == nil {
		table = schema.NewTable(nil)
	}
	if rules == nil {
		rules = validation.NewRuleSet()
	}
	return &Source{
		name:  strings.TrimSpace(name),
		table: table,
		rules: rules,
	}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Schema() schema.Provider { return s.table }

func (s *Source) Validator() validation.Provider { return s.rules }

// PrimaryKey returns the primary key columns of the underlying table.
func (s *Source) PrimaryKey() []string { return s.table.PrimaryKey() }

// Relationships returns a copy of the declared associations.
func (s *Source) Relationships() []Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Relationship(nil), s.relationships...)
}

// Relate registers an association and returns the source for chaining.
func (s *Source) Relate(kind RelationshipKind, property, foreignKey string, target DataSource) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships = append(s.relationships, Relationship{
		Kind:       kind,
		Property:   strings.TrimSpace(property),
		ForeignKey: strings.TrimSpace(foreignKey),
		Target:     target,
	})
	return s
}

// BelongsTo registers a many-to-one association.
func (s *Source) BelongsTo(property, foreignKey string, target DataSource) *Source {
	return s.Relate(RelationshipBelongsTo, property, foreignKey, target)
}

// HasOne registers a one-to-one association.
func (s *Source) HasOne(property, foreignKey string, target DataSource) *Source {
	return s.Relate(RelationshipHasOne, property, foreignKey, target)
}

// HasMany registers a one-to-many association.
func (s *Source) HasMany(property, foreignKey string, target DataSource) *Source {
	return s.Relate(RelationshipHasMany, property, foreignKey, target)
}

// BelongsToMany registers a many-to-many association.
func (s *Source) BelongsToMany(property, foreignKey string, target DataSource) *Source {
	return s.Relate(RelationshipBelongsToMany, property, foreignKey, target)
}
