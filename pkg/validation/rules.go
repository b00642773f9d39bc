package validation

import (
	"strings"
	"sync"
)

// Canonical rule names understood by the derivations. Other names are legal
// and only take part in Required.
const (
	RuleRequired            = "required"
	RuleBetween             = "between"
	RuleLessThan            = "lessThan"
	RuleLessThanOrEquals    = "lessThanOrEquals"
	RuleGreaterThan         = "greaterThan"
	RuleGreaterThanOrEquals = "greaterThanOrEquals"
	RuleMaxLength           = "maxLength"
	RuleLengthBetween       = "lengthBetween"
)

// Rule is a single declared validation constraint. SkipEmpty marks rules that
// tolerate an empty value and therefore do not imply presence.
type Rule struct {
	Name      string `json:"name" yaml:"name"`
	Args      []any  `json:"args,omitempty" yaml:"args,omitempty"`
	SkipEmpty bool   `json:"skipEmpty,omitempty" yaml:"skipEmpty,omitempty"`
}

// Provider exposes the rules declared for each field of a data source.
type Provider interface {
	FieldRules(field string) []Rule
}

// RequiredRule builds a presence rule.
func RequiredRule() Rule { return Rule{Name: RuleRequired} }

// Between builds an inclusive range rule.
func Between(lower, upper any) Rule { return Rule{Name: RuleBetween, Args: []any{lower, upper}} }

// LessThan builds an exclusive upper bound rule.
func LessThan(n any) Rule { return Rule{Name: RuleLessThan, Args: []any{n}} }

// LessThanOrEquals builds an inclusive upper bound rule.
func LessThanOrEquals(n any) Rule { return Rule{Name: RuleLessThanOrEquals, Args: []any{n}} }

// GreaterThan builds an exclusive lower bound rule.
func GreaterThan(n any) Rule { return Rule{Name: RuleGreaterThan, Args: []any{n}} }

// GreaterThanOrEquals builds an inclusive lower bound rule.
func GreaterThanOrEquals(n any) Rule { return Rule{Name: RuleGreaterThanOrEquals, Args: []any{n}} }

// MaxLengthRule builds a length cap rule.
func MaxLengthRule(n any) Rule { return Rule{Name: RuleMaxLength, Args: []any{n}} }

// AllowEmpty returns a copy of the rule that tolerates empty values.
func (r Rule) AllowEmpty() Rule {
	r.SkipEmpty = true
	r.Args = append([]any(nil), r.Args...)
	return r
}

// RuleSet is an in-memory Provider. It is safe for concurrent reads once
// populated.
type RuleSet struct {
	mu    sync.RWMutex
	rules map[string][]Rule
}

// NewRuleSet creates an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string][]Rule)}
}

// Add appends rules for field, preserving declaration order.
func (s *RuleSet) Add(field string, rules ...Rule) *RuleSet {
	field = strings.TrimSpace(field)
	if field == "" || len(rules) == 0 {
		return s
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[field] = append(s.rules[field], rules...)
	return s
}

// FieldRules returns a copy of the rules declared for field.
func (s *RuleSet) FieldRules(field string) []Rule {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := s.rules[field]
	if len(rules) == 0 {
		return nil
	}
	return append([]Rule(nil), rules...)
}
