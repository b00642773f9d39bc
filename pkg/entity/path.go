package entity

import (
	"reflect"
	"strconv"
	"strings"
)

// Lookup walks a dotted path against record. Each segment indexes the current
// value: records and string-keyed maps by name, slices and arrays by numeric
// index. The walk stops with false as soon as a segment does not resolve.
func Lookup(record Record, path string) (any, bool) {
	if record == nil || path == "" {
		return nil, false
	}
	var current any = record
	for _, segment := range strings.Split(path, ".") {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(current any, segment string) (any, bool) {
	switch value := current.(type) {
	case nil:
		return nil, false
	case Record:
		return value.Get(segment)
	case map[string]any:
		next, ok := value[segment]
		return next, ok
	}

	rv := reflect.ValueOf(current)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
		return step(rv.Elem().Interface(), segment)
	case reflect.Slice, reflect.Array:
		index, err := strconv.Atoi(segment)
		if err != nil || index < 0 || index >= rv.Len() {
			return nil, false
		}
		return rv.Index(index).Interface(), true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		next := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !next.IsValid() {
			return nil, false
		}
		return next.Interface(), true
	default:
		return nil, false
	}
}
