package trait

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

const (
	reasonInvalidBool   = "invalid boolean"
	reasonInvalidInt    = "invalid integer"
	reasonInvalidNumber = "invalid number"
	reasonOutOfRange    = "out of range"
)

// coerce converts raw into the canonical representation of t. A non-empty
// reason means the value was rejected.
func (t Type) coerce(raw any) (any, string) {
	switch t.kind {
	case KindBool:
		return coerceBool(raw)
	case KindInt:
		return coerceInt(raw)
	case KindFloat:
		return coerceFloat(raw)
	case KindString:
		if s, ok := raw.(string); ok {
			return s, ""
		}
		return nil, fmt.Sprintf("expected string, got %T", raw)
	case KindEnum:
		s, ok := raw.(string)
		if !ok || !slices.Contains(t.choices, s) {
			return nil, fmt.Sprintf("invalid choice (allowed: %s)", strings.Join(t.choices, ", "))
		}
		return s, ""
	case KindList:
		return t.coerceList(raw)
	default:
		return nil, "undeclared type"
	}
}

func coerceBool(raw any) (any, string) {
	switch v := raw.(type) {
	case bool:
		return v, ""
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, ""
		case "false", "0", "no":
			return false, ""
		}
		return nil, reasonInvalidBool
	}
	if n, ok := integerValue(raw); ok && (n == 0 || n == 1) {
		return n == 1, ""
	}
	return nil, reasonInvalidBool
}

func coerceInt(raw any) (any, string) {
	if s, ok := raw.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return nil, reasonOutOfRange
		}
		if err != nil {
			return nil, reasonInvalidInt
		}
		return n, ""
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), ""
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, reasonOutOfRange
		}
		return int64(u), ""
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, reasonInvalidInt
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, reasonOutOfRange
		}
		return int64(f), ""
	default:
		return nil, reasonInvalidInt
	}
}

func coerceFloat(raw any) (any, string) {
	var f float64
	if s, ok := raw.(string); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if errors.Is(err, strconv.ErrRange) {
			return nil, reasonOutOfRange
		}
		if err != nil {
			return nil, reasonInvalidNumber
		}
		f = parsed
	} else {
		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return nil, reasonInvalidNumber
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, reasonInvalidNumber
	}
	return f, ""
}

// coerceList accepts a native slice or a comma-separated string.
func (t Type) coerceList(raw any) (any, string) {
	var items []any
	switch v := raw.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, part)
		}
	default:
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Sprintf("expected list, got %T", raw)
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		value, reason := t.elem.coerce(item)
		if reason != "" {
			return nil, fmt.Sprintf("element %d: %s", i, reason)
		}
		out = append(out, value)
	}
	return out, ""
}

func integerValue(raw any) (int64, bool) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Equal reports whether two canonical trait values are equal.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Clone copies list values so callers cannot mutate stored state.
func Clone(v any) any {
	if list, ok := v.([]any); ok {
		return slices.Clone(list)
	}
	return v
}
