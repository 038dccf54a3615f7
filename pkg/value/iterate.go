package value

import (
	"reflect"
	"sort"
)

// Keyed is implemented by values that expose their own members by name, such
// as private-data frames.
type Keyed interface {
	Keys() []string
	OwnProperty(name string) (any, bool)
}

// Entry is one iteration step: the key (int index or string name) and the
// element.
type Entry struct {
	Key   any
	Value any
}

// Entries lists what `each` iterates over: sequence elements in order, map
// entries by sorted key, and a struct's declared fields in declaration order.
// It returns nil for anything else.
func Entries(v any) []Entry {
	if v == nil {
		return nil
	}
	if keyed, ok := v.(Keyed); ok {
		keys := keyed.Keys()
		out := make([]Entry, 0, len(keys))
		for _, key := range keys {
			item, _ := keyed.OwnProperty(key)
			out = append(out, Entry{Key: key, Value: item})
		}
		return out
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Entry, rv.Len())
		for i := range out {
			out[i] = Entry{Key: i, Value: rv.Index(i).Interface()}
		}
		return out
	case reflect.Map:
		keys := rv.MapKeys()
		sortKeys(keys)
		out := make([]Entry, len(keys))
		for i, key := range keys {
			out[i] = Entry{Key: Stringify(key.Interface()), Value: rv.MapIndex(key).Interface()}
		}
		return out
	case reflect.Struct:
		var out []Entry
		for _, f := range Fields(rv.Type()) {
			if f.Promoted {
				continue
			}
			out = append(out, Entry{Key: f.Name, Value: rv.FieldByIndex(f.Index).Interface()})
		}
		return out
	}
	return nil
}

// sortKeys orders integer keys numerically and everything else by its
// string form.
func sortKeys(keys []reflect.Value) {
	if len(keys) == 0 {
		return
	}
	switch keys[0].Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	default:
		sort.Slice(keys, func(i, j int) bool {
			return Stringify(keys[i].Interface()) < Stringify(keys[j].Interface())
		})
	}
}
