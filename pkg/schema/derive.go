package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cast"
)

// MaxSafeInteger is the largest integer bound the derivations report. Bounds
// are float64 values, so anything past 2^53-1 can no longer be represented
// exactly and is reported as unbounded instead.
const MaxSafeInteger = 1<<53 - 1

// HTML input kinds produced by HTMLType.
const (
	HTMLText     = "text"
	HTMLNumber   = "number"
	HTMLCheckbox = "checkbox"
	HTMLDate     = "date"
	HTMLDatetime = "datetime"
	HTMLTime     = "time"
	HTMLSelect   = "select"
	HTMLTextarea = "textarea"
)

// StepAny is the HTML5 step value meaning "no fixed step".
const StepAny = "any"

var widthCeilings = map[ColumnType]int64{
	TypeTinyInt:   127,
	TypeSmallInt:  32767,
	TypeMediumInt: 8388607,
	TypeInt:       2147483647,
}

// DefaultValue decodes the stored column default. NULL and absent defaults,
// and anything that is neither numeric nor a quoted literal, yield None.
// Booleans decode as 1 or 0 and non-finite numbers are rejected.
func DefaultValue(column ColumnDescriptor) mo.Option[any] {
	switch value := column.Default.(type) {
	case nil:
		return mo.None[any]()
	case bool:
		return mo.Some[any](float64(lo.Ternary(value, 1, 0)))
	case string:
		return decodeDefaultString(value)
	default:
		number, err := cast.ToFloat64E(value)
		if err != nil || !isFinite(number) {
			return mo.None[any]()
		}
		return mo.Some[any](number)
	}
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func decodeDefaultString(raw string) mo.Option[any] {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "NULL") {
		return mo.None[any]()
	}
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil && isFinite(number) {
		return mo.Some[any](number)
	}
	if len(trimmed) >= 2 {
		quote := trimmed[0]
		if (quote == '\'' || quote == '"') && trimmed[len(trimmed)-1] == quote {
			inner := trimmed[1 : len(trimmed)-1]
			doubled := string([]byte{quote, quote})
			return mo.Some[any](strings.ReplaceAll(inner, doubled, string(quote)))
		}
	}
	return mo.None[any]()
}

// MaxValue returns the largest value the column can hold. The type width
// ceiling is always capped by the declared digit count.
func MaxValue(column ColumnDescriptor) mo.Option[float64] {
	if !column.Type.IsNumeric() {
		return mo.None[float64]()
	}

	width, hasWidth := widthCeilings[column.Type]
	if hasWidth && column.Unsigned {
		width = 2*width + 1
	}

	digits, hasDigits, overflow := digitCeiling(column.Length)
	if overflow {
		return mo.None[float64]()
	}

	var result int64
	switch {
	case hasWidth && hasDigits:
		result = min(width, digits)
	case hasWidth:
		result = width
	case hasDigits:
		result = digits
	default:
		return mo.None[float64]()
	}

	if result > MaxSafeInteger {
		return mo.None[float64]()
	}
	return mo.Some(float64(result))
}

// MinValue returns the smallest value the column can hold. Unsigned columns
// start at zero.
func MinValue(column ColumnDescriptor) mo.Option[float64] {
	if !column.Type.IsNumeric() {
		return mo.None[float64]()
	}
	if column.Unsigned {
		return mo.Some(0.0)
	}

	width, hasWidth := widthCeilings[column.Type]
	floor := -width - 1

	digits, hasDigits, overflow := digitCeiling(column.Length)
	if overflow {
		return mo.None[float64]()
	}

	var result int64
	switch {
	case hasWidth && hasDigits:
		result = max(floor, -digits)
	case hasWidth:
		result = floor
	case hasDigits:
		result = -digits
	default:
		return mo.None[float64]()
	}

	if result < -MaxSafeInteger {
		return mo.None[float64]()
	}
	return mo.Some(float64(result))
}

// digitCeiling computes 10^length-1. overflow is set once the value can no
// longer be represented as a safe integer.
func digitCeiling(length mo.Option[int]) (value int64, ok bool, overflow bool) {
	digits, present := length.Get()
	if !present || digits <= 0 {
		return 0, false, false
	}
	var power int64 = 1
	for i := 0; i < digits; i++ {
		if power > MaxSafeInteger/10 {
			return 0, false, true
		}
		power *= 10
	}
	return power - 1, true, false
}

// MaxLength returns the character or byte capacity for string-like columns.
func MaxLength(column ColumnDescriptor) mo.Option[int] {
	switch column.Type {
	case TypeChar, TypeBinary:
		if length, ok := column.Length.Get(); ok && length > 0 {
			return mo.Some(length)
		}
		return mo.Some(1)
	case TypeVarchar, TypeVarbinary:
		if length, ok := column.Length.Get(); ok && length > 0 {
			return mo.Some(length)
		}
		return mo.None[int]()
	case TypeTinyText, TypeTinyBlob:
		return mo.Some(255)
	case TypeText, TypeBlob:
		return mo.Some(65535)
	default:
		return mo.None[int]()
	}
}

// Step returns the HTML5 step attribute implied by the column.
func Step(column ColumnDescriptor) mo.Option[string] {
	switch {
	case column.Type.IsInteger():
		return mo.Some("1")
	case column.Type == TypeDecimal:
		precision := column.Precision.OrElse(0)
		if precision <= 0 {
			return mo.Some("1")
		}
		return mo.Some(strconv.FormatFloat(math.Pow10(-precision), 'f', -1, 64))
	case column.Type == TypeFloat, column.Type == TypeDouble:
		return mo.Some(StepAny)
	default:
		return mo.None[string]()
	}
}

// HTMLType classifies the column into a coarse HTML input kind.
func HTMLType(column ColumnDescriptor) string {
	switch {
	case column.Type == TypeTinyInt && column.Length.OrElse(0) == 1:
		return HTMLCheckbox
	case column.Type == TypeBoolean:
		return HTMLCheckbox
	case column.Type == TypeDate:
		return HTMLDate
	case column.Type == TypeDatetime, column.Type == TypeTimestamp:
		return HTMLDatetime
	case column.Type == TypeTime:
		return HTMLTime
	case column.Type == TypeEnum, column.Type == TypeSet:
		return HTMLSelect
	case column.Type.IsTextual():
		return HTMLTextarea
	case column.Type.IsNumeric():
		return HTMLNumber
	default:
		return HTMLText
	}
}
