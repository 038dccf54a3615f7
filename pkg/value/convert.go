package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Stringify converts v the way the template language converts values to
// text. nil becomes "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case SafeString:
		return string(x)
	case []byte:
		return string(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return FormatNumber(x)
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return FormatNumber(rv.Float())
	case reflect.Bool:
		return Stringify(rv.Bool())
	case reflect.String:
		return rv.String()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
		return Stringify(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ""
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Func:
		if rv.IsNil() {
			return ""
		}
		return "function"
	case reflect.Map, reflect.Struct:
		return "[object Object]"
	}
	return fmt.Sprint(v)
}

// FormatNumber prints a float for template output: integral values
// have no fractional part and very large or small magnitudes use an exponent.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Add joins two statement results with the language's `+`: numbers and
// booleans add numerically, anything else concatenates as text.
func Add(a, b any) any {
	if na, ok := numeric(a); ok {
		if nb, ok := numeric(b); ok {
			if na.integral && nb.integral {
				if sum, ok := addInt64(na.i, nb.i); ok {
					return sum
				}
			}
			return na.f + nb.f
		}
	}
	return Stringify(a) + Stringify(b)
}

// addInt64 reports false when a+b overflows int64.
func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0) {
		return 0, false
	}
	return sum, true
}

type number struct {
	i        int64
	f        float64
	integral bool
}

func numeric(v any) (number, bool) {
	switch x := v.(type) {
	case nil, string, SafeString:
		return number{}, false
	case bool:
		if x {
			return number{i: 1, f: 1, integral: true}, true
		}
		return number{integral: true}, true
	case int:
		return number{i: int64(x), f: float64(x), integral: true}, true
	case float64:
		return number{f: x}, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int(), f: float64(rv.Int()), integral: true}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return number{f: float64(u)}, true
		}
		return number{i: int64(u), f: float64(u), integral: true}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float()}, true
	}
	return number{}, false
}

// ToNumber converts numeric values (and booleans) to float64.
func ToNumber(v any) (float64, bool) {
	if _, isBool := v.(bool); isBool {
		return 0, false
	}
	n, ok := numeric(v)
	if !ok {
		return 0, false
	}
	return n.f, true
}

// ToInt converts numeric values and numeric strings to int.
func ToInt(v any) (int, bool) {
	if s, ok := v.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	}
	f, ok := ToNumber(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Truthy applies the language's truthiness: nil, false, 0, NaN and "" are
// falsy, as are nil pointers, maps, slices and funcs. Everything else,
// including empty collections, is truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case SafeString:
		return x != ""
	}
	if n, ok := numeric(v); ok {
		if n.integral {
			return n.i != 0
		}
		return n.f != 0 && !math.IsNaN(n.f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	}
	return true
}

// IsZeroNumber reports whether v is a numeric zero.
func IsZeroNumber(v any) bool {
	if _, isBool := v.(bool); isBool {
		return false
	}
	n, ok := numeric(v)
	if !ok {
		return false
	}
	if n.integral {
		return n.i == 0
	}
	return n.f == 0
}

// IsEmpty reports falsy values other than numeric zero, and empty
// sequences.
func IsEmpty(v any) bool {
	if !Truthy(v) && !IsZeroNumber(v) {
		return true
	}
	if IsSequence(v) {
		return reflect.ValueOf(v).Len() == 0
	}
	return false
}

// IsSequence reports whether v is a slice or array.
func IsSequence(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// IsCallable reports whether v is a non-nil func.
func IsCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// Same reports whether a and b denote the same value. Reference kinds compare
// by identity, comparable values with ==, and the rest structurally.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if ra.Type().Comparable() {
		return comparableEqual(a, b)
	}
	return reflect.DeepEqual(a, b)
}

func comparableEqual(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
