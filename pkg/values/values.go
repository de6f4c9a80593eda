package values

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Number converts Go numeric kinds and json.Number to float64.
// Strings and bools are rejected so that a mistyped submission never passes a
// numeric comparison.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil, bool, string:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Count returns the number of truthy values of a map, the length of a slice or
// array, and 0 for anything else.
func Count(v interface{}) int {
	if v == nil {
		return 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		count := 0
		iter := rv.MapRange()
		for iter.Next() {
			if Truthy(iter.Value().Interface()) {
				count++
			}
		}
		return count
	case reflect.Slice, reflect.Array:
		return rv.Len()
	default:
		return 0
	}
}

// Truthy reports whether v is a "present" value: nil, false, zero numbers,
// empty strings and empty collections are falsy.
func Truthy(v interface{}) bool {
	if v == nil {
		return false
	}

	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}

	if n, ok := Number(v); ok {
		return n != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return Truthy(rv.Elem().Interface())
	}

	return true
}

// Equal compares two decoded values. Numbers compare by value across numeric
// kinds, so 1 (int) equals 1.0 (float64 from JSON).
func Equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	na, aNum := Number(a)
	nb, bNum := Number(b)
	if aNum || bNum {
		return aNum && bNum && na == nb
	}

	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}

	return reflect.DeepEqual(a, b)
}

// Date normalises a time.Time or a date string to midnight UTC of its calendar day.
func Date(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return day(t), !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return day(*t), !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		parsed, err := cast.ToTimeE(s)
		if err != nil {
			return time.Time{}, false
		}
		return day(parsed), true
	default:
		return time.Time{}, false
	}
}

// Lookup resolves a field id against data. An exact key wins; otherwise a dotted
// id walks nested maps ("section.field").
func Lookup(data map[string]interface{}, fieldID string) (interface{}, bool) {
	if data == nil {
		return nil, false
	}
	if v, ok := data[fieldID]; ok {
		return v, true
	}
	if !strings.Contains(fieldID, ".") {
		return nil, false
	}

	var current interface{} = data
	for _, part := range strings.Split(fieldID, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
