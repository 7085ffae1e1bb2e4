package panel

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lookupField finds the settable field name on target, which must be a
// non-nil pointer to a struct. A lower-case first letter also matches the
// exported field, so "color" binds Color; failing that the name is matched
// case-insensitively, so "ior" binds IOR.
func lookupField(target any, name string) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: target %T is not a pointer to a struct", ErrFieldType, target)
	}
	s := rv.Elem()
	f := s.FieldByName(name)
	if !f.IsValid() && name != "" {
		r, size := utf8.DecodeRuneInString(name)
		f = s.FieldByName(string(unicode.ToUpper(r)) + name[size:])
	}
	if !f.IsValid() {
		f = s.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	}
	if !f.IsValid() || !f.CanSet() {
		return reflect.Value{}, fmt.Errorf("%w: %q in %s", ErrFieldNotFound, name, s.Type())
	}
	return f, nil
}

func fieldTypeError(field string, got reflect.Type, want string) error {
	return fmt.Errorf("%w: %s is %s, want %s", ErrFieldType, field, got, want)
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// toFloat converts any numeric value, or a numeric string, to float64.
func toFloat(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case k == reflect.Float32 || k == reflect.Float64:
		return rv.Float(), true
	case isInt(k):
		return float64(rv.Int()), true
	case isUint(k):
		return float64(rv.Uint()), true
	}
	return 0, false
}

// toInt converts an integral value to int64. Floats must be whole.
func toInt(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case isInt(k):
		return rv.Int(), true
	case isUint(k):
		u := rv.Uint()
		return int64(u), u <= 1<<62
	case k == reflect.Float32 || k == reflect.Float64:
		f := rv.Float()
		return int64(f), f == float64(int64(f))
	}
	return 0, false
}

func sameValue(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
