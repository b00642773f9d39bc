package schema

import (
	"sort"
	"strings"

	"github.com/samber/mo"
)

// ColumnType is the storage type declared for a persisted field.
type ColumnType string

const (
	TypeTinyInt    ColumnType = "tinyint"
	TypeSmallInt   ColumnType = "smallint"
	TypeMediumInt  ColumnType = "mediumint"
	TypeInt        ColumnType = "int"
	TypeBigInt     ColumnType = "bigint"
	TypeDecimal    ColumnType = "decimal"
	TypeFloat      ColumnType = "float"
	TypeDouble     ColumnType = "double"
	TypeBoolean    ColumnType = "boolean"
	TypeDate       ColumnType = "date"
	TypeDatetime   ColumnType = "datetime"
	TypeTimestamp  ColumnType = "timestamp"
	TypeTime       ColumnType = "time"
	TypeChar       ColumnType = "char"
	TypeVarchar    ColumnType = "varchar"
	TypeTinyText   ColumnType = "tinytext"
	TypeText       ColumnType = "text"
	TypeMediumText ColumnType = "mediumtext"
	TypeLongText   ColumnType = "longtext"
	TypeBinary     ColumnType = "binary"
	TypeVarbinary  ColumnType = "varbinary"
	TypeTinyBlob   ColumnType = "tinyblob"
	TypeBlob       ColumnType = "blob"
	TypeMediumBlob ColumnType = "mediumblob"
	TypeLongBlob   ColumnType = "longblob"
	TypeEnum       ColumnType = "enum"
	TypeSet        ColumnType = "set"
	TypeJSON       ColumnType = "json"
	TypeUUID       ColumnType = "uuid"
)

// IsInteger reports whether the type stores whole numbers.
func (t ColumnType) IsInteger() bool {
	switch t {
	case TypeTinyInt, TypeSmallInt, TypeMediumInt, TypeInt, TypeBigInt:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether the type belongs to the numeric family.
func (t ColumnType) IsNumeric() bool {
	switch t {
	case TypeDecimal, TypeFloat, TypeDouble:
		return true
	default:
		return t.IsInteger()
	}
}

// IsTextual reports whether the type is part of the text or blob family.
func (t ColumnType) IsTextual() bool {
	switch t {
	case TypeTinyText, TypeText, TypeMediumText, TypeLongText,
		TypeTinyBlob, TypeBlob, TypeMediumBlob, TypeLongBlob:
		return true
	default:
		return false
	}
}

// ColumnDescriptor describes one persisted field. Values are treated as
// immutable once handed to a Provider.
type ColumnDescriptor struct {
	Type      ColumnType
	Length    mo.Option[int]
	Precision mo.Option[int]
	Unsigned  bool
	// Default holds the raw stored default: nil, a number, or a string that may
	// be quoted ('B') or the literal NULL.
	Default any
	Null    bool
	// Values lists enum/set members in declaration order.
	Values []string
}

// Provider describes the persisted columns of a single data source.
type Provider interface {
	Column(field string) (ColumnDescriptor, bool)
}

// Table is an in-memory Provider keyed by field name.
type Table struct {
	columns map[string]ColumnDescriptor
	primary []string
}

// NewTable builds a Table from the supplied columns.
func NewTable(columns map[string]ColumnDescriptor, primaryKey ...string) *Table {
	out := &Table{
		columns: make(map[string]ColumnDescriptor, len(columns)),
		primary: append([]string(nil), primaryKey...),
	}
	for name, column := range columns {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		column.Values = append([]string(nil), column.Values...)
		out.columns[name] = column
	}
	return out
}

// Column returns the descriptor for field.
func (t *Table) Column(field string) (ColumnDescriptor, bool) {
	if t == nil {
		return ColumnDescriptor{}, false
	}
	column, ok := t.columns[field]
	return column, ok
}

// Columns returns the sorted column names.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.columns))
	for name := range t.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrimaryKey returns the primary key columns.
func (t *Table) PrimaryKey() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.primary...)
}
