package access

import (
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-handlebars/pkg/value"
)

// PropertySource is implemented by values that answer member lookups
// themselves. Everything such a value reports is an own member, and its
// method set is never consulted.
type PropertySource interface {
	OwnProperty(name string) (any, bool)
}

// Member is a resolved member before the policy is applied.
type Member struct {
	Value    any
	Own      bool
	Callable bool
}

// Resolve finds name on obj. Own members are map entries, sequence indices
// and length, and declared exported struct fields. Inherited members are
// fields promoted from embedded structs and methods, bound to obj.
func Resolve(obj any, name string) (Member, bool) {
	if obj == nil {
		return Member{}, false
	}
	if src, ok := obj.(PropertySource); ok {
		v, found := src.OwnProperty(name)
		if !found {
			return Member{}, false
		}
		return Member{Value: v, Own: true}, true
	}

	rv := reflect.ValueOf(obj)
	if m, ok := ownMember(rv, name); ok {
		return m, true
	}
	return inheritedMember(rv, name)
}

func ownMember(rv reflect.Value, name string) (Member, bool) {
	v := indirect(rv)
	if !v.IsValid() {
		return Member{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		key, ok := mapKey(v.Type().Key(), name)
		if !ok {
			return Member{}, false
		}
		item := v.MapIndex(key)
		if !item.IsValid() {
			return Member{}, false
		}
		return Member{Value: item.Interface(), Own: true}, true
	case reflect.Slice, reflect.Array, reflect.String:
		if name == "length" {
			return Member{Value: v.Len(), Own: true}, true
		}
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= v.Len() {
			return Member{}, false
		}
		if v.Kind() == reflect.String {
			return Member{Value: v.String()[i : i+1], Own: true}, true
		}
		return Member{Value: v.Index(i).Interface(), Own: true}, true
	case reflect.Struct:
		f, ok := value.FindField(v.Type(), name)
		if !ok || f.Promoted {
			return Member{}, false
		}
		return Member{Value: v.FieldByIndex(f.Index).Interface(), Own: true}, true
	}
	return Member{}, false
}

func inheritedMember(rv reflect.Value, name string) (Member, bool) {
	if v := indirect(rv); v.IsValid() && v.Kind() == reflect.Struct {
		if f, ok := value.FindField(v.Type(), name); ok && f.Promoted {
			fv, err := v.FieldByIndexErr(f.Index)
			if err == nil {
				return Member{Value: fv.Interface(), Callable: fv.Kind() == reflect.Func}, true
			}
		}
	}

	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return Member{}, false
	}
	for _, candidate := range methodNames(name) {
		if m := rv.MethodByName(candidate); m.IsValid() {
			return Member{Value: m.Interface(), Callable: true}, true
		}
	}
	return Member{}, false
}

func methodNames(name string) []string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return []string{name}
	}
	return []string{name, string(unicode.ToUpper(r)) + name[size:]}
}

func mapKey(t reflect.Type, name string) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(name).Convert(t), true
	case reflect.Interface:
		if reflect.TypeOf(name).Implements(t) {
			return reflect.ValueOf(name).Convert(t), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, t.Bits())
		if err == nil {
			return reflect.ValueOf(n).Convert(t), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(name, 10, t.Bits())
		if err == nil {
			return reflect.ValueOf(n).Convert(t), true
		}
	}
	return reflect.Value{}, false
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// OwnKeys lists obj's own member names in iteration order.
func OwnKeys(obj any) []string {
	entries := value.Entries(obj)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = value.Stringify(e.Key)
	}
	return keys
}

// OwnProperties copies obj's own members into a new map.
func OwnProperties(obj any) map[string]any {
	entries := value.Entries(obj)
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		out[value.Stringify(e.Key)] = e.Value
	}
	return out
}
