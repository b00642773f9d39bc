package validation

import (
	"math"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cast"
)

// Max returns the tightest upper bound declared by the rules.
func Max(rules []Rule) mo.Option[float64] {
	bounds := lo.FilterMap(rules, func(rule Rule, _ int) (float64, bool) {
		switch rule.Name {
		case RuleBetween:
			return numberArg(rule, 1)
		case RuleLessThan:
			n, ok := numberArg(rule, 0)
			return n - 1, ok
		case RuleLessThanOrEquals:
			return numberArg(rule, 0)
		default:
			return 0, false
		}
	})
	return reduce(bounds, math.Min)
}

// Min returns the tightest lower bound declared by the rules.
func Min(rules []Rule) mo.Option[float64] {
	bounds := lo.FilterMap(rules, func(rule Rule, _ int) (float64, bool) {
		switch rule.Name {
		case RuleBetween:
			return numberArg(rule, 0)
		case RuleGreaterThan:
			n, ok := numberArg(rule, 0)
			return n + 1, ok
		case RuleGreaterThanOrEquals:
			return numberArg(rule, 0)
		default:
			return 0, false
		}
	})
	return reduce(bounds, math.Max)
}

// maxLengthCap bounds the length caps MaxLength reports.
const maxLengthCap = math.MaxInt32

// MaxLength returns the smallest declared length cap. Caps that are negative,
// fractional or beyond maxLengthCap are ignored.
func MaxLength(rules []Rule) mo.Option[int] {
	caps := lo.FilterMap(rules, func(rule Rule, _ int) (float64, bool) {
		var n float64
		var ok bool
		switch rule.Name {
		case RuleMaxLength:
			n, ok = numberArg(rule, 0)
		case RuleLengthBetween:
			n, ok = numberArg(rule, 1)
		}
		return n, ok && n >= 0 && n <= maxLengthCap && n == math.Trunc(n)
	})
	bound, ok := reduce(caps, math.Min).Get()
	if !ok {
		return mo.None[int]()
	}
	return mo.Some(int(bound))
}

// Required reports whether any rule refuses empty values.
func Required(rules []Rule) bool {
	return lo.SomeBy(rules, func(rule Rule) bool {
		return !rule.SkipEmpty
	})
}

func reduce(values []float64, pick func(a, b float64) float64) mo.Option[float64] {
	if len(values) == 0 {
		return mo.None[float64]()
	}
	return mo.Some(lo.Reduce(values[1:], func(acc float64, value float64, _ int) float64 {
		return pick(acc, value)
	}, values[0]))
}

func numberArg(rule Rule, index int) (float64, bool) {
	if index >= len(rule.Args) {
		return 0, false
	}
	n, err := cast.ToFloat64E(rule.Args[index])
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
