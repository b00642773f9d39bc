package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// ErrUnknownColumnType is returned when a type declaration names no known type.
var ErrUnknownColumnType = errors.New("schema: unknown column type")

var columnDeclPattern = regexp.MustCompile(`(?i)^\s*([a-z][a-z ]*?)\s*(?:\((.*)\))?\s*(unsigned)?\s*$`)

var typeAliases = map[string]ColumnType{
	"integer":          TypeInt,
	"int":              TypeInt,
	"biginteger":       TypeBigInt,
	"smallinteger":     TypeSmallInt,
	"tinyinteger":      TypeTinyInt,
	"bool":             TypeBoolean,
	"string":           TypeVarchar,
	"numeric":          TypeDecimal,
	"real":             TypeFloat,
	"double precision": TypeDouble,
}

// ParseColumnType builds a descriptor from an SQL-style declaration such as
// "DECIMAL(10,2) UNSIGNED", "tinyint(1)" or "ENUM('A','B')".
func ParseColumnType(declaration string) (ColumnDescriptor, error) {
	match := columnDeclPattern.FindStringSubmatch(declaration)
	if match == nil {
		return ColumnDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownColumnType, declaration)
	}

	name := strings.ToLower(strings.Join(strings.Fields(match[1]), " "))
	unsigned := match[3] != ""
	if strings.HasSuffix(name, " unsigned") {
		name = strings.TrimSuffix(name, " unsigned")
		unsigned = true
	}

	columnType, ok := typeAliases[name]
	if !ok {
		columnType = ColumnType(name)
		if !knownType(columnType) {
			return ColumnDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownColumnType, declaration)
		}
	}

	column := ColumnDescriptor{Type: columnType, Unsigned: unsigned}
	args := strings.TrimSpace(match[2])
	if args == "" {
		return column, nil
	}

	if columnType == TypeEnum || columnType == TypeSet {
		values, err := ParseEnumValues(args)
		if err != nil {
			return ColumnDescriptor{}, fmt.Errorf("schema: parse %q: %w", declaration, err)
		}
		column.Values = values
		return column, nil
	}

	parts := strings.Split(args, ",")
	if len(parts) > 2 {
		return ColumnDescriptor{}, fmt.Errorf("schema: parse %q: too many size arguments", declaration)
	}
	length, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ColumnDescriptor{}, fmt.Errorf("schema: parse %q length: %w", declaration, err)
	}
	column.Length = mo.Some(length)
	if len(parts) == 2 {
		precision, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return ColumnDescriptor{}, fmt.Errorf("schema: parse %q precision: %w", declaration, err)
		}
		column.Precision = mo.Some(precision)
	}
	return column, nil
}

// ParseEnumValues splits a quoted member list ('A','B','it''s') into values.
func ParseEnumValues(raw string) ([]string, error) {
	var (
		values  []string
		current strings.Builder
		quote   byte
	)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if quote == 0 {
			switch c {
			case '\'', '"':
				quote = c
				current.Reset()
			case ',', ' ', '\t':
			default:
				return nil, fmt.Errorf("unexpected %q at offset %d", c, i)
			}
			continue
		}
		if c == quote {
			if i+1 < len(raw) && raw[i+1] == quote {
				current.WriteByte(c)
				i++
				continue
			}
			values = append(values, current.String())
			quote = 0
			continue
		}
		current.WriteByte(c)
	}
	if quote != 0 {
		return nil, errors.New("unterminated quoted value")
	}
	return values, nil
}

func knownType(t ColumnType) bool {
	switch t {
	case TypeTinyInt, TypeSmallInt, TypeMediumInt, TypeInt, TypeBigInt,
		TypeDecimal, TypeFloat, TypeDouble, TypeBoolean,
		TypeDate, TypeDatetime, TypeTimestamp, TypeTime,
		TypeChar, TypeVarchar, TypeTinyText, TypeText, TypeMediumText, TypeLongText,
		TypeBinary, TypeVarbinary, TypeTinyBlob, TypeBlob, TypeMediumBlob, TypeLongBlob,
		TypeEnum, TypeSet, TypeJSON, TypeUUID:
		return true
	default:
		return false
	}
}
