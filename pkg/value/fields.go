package value

import (
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// Field describes one exported struct field as templates see it.
type Field struct {
	// Name is the template-facing key: the hbs tag when present, otherwise the
	// lower-camel form of the Go name.
	Name   string
	GoName string
	Index  []int
	// Promoted marks fields reached through an embedded struct.
	Promoted bool
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields lists the exported fields of struct type t, declared fields first
// followed by fields promoted from embedded structs. Shadowed promotions are
// omitted.
func Fields(t reflect.Type) []Field {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}

	var (
		declared []Field
		promoted []Field
		seen     = map[string]bool{}
	)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous || !reachable(t, sf.Index) {
			continue
		}
		name, skip := fieldName(sf)
		if skip || seen[sf.Name] {
			continue
		}
		seen[sf.Name] = true
		f := Field{Name: name, GoName: sf.Name, Index: sf.Index, Promoted: len(sf.Index) > 1}
		if f.Promoted {
			promoted = append(promoted, f)
		} else {
			declared = append(declared, f)
		}
	}
	fields := append(declared, promoted...)
	fieldCache.Store(t, fields)
	return fields
}

// FindField returns the field matching name by tag, Go name or lower-camel
// name.
func FindField(t reflect.Type, name string) (Field, bool) {
	for _, f := range Fields(t) {
		if f.Name == name || f.GoName == name {
			return f, true
		}
	}
	return Field{}, false
}

// reachable reports whether every embedded hop on the way to a promoted
// field is exported, so the field can be read through reflection.
func reachable(t reflect.Type, index []int) bool {
	for i := 1; i < len(index); i++ {
		if !t.FieldByIndex(index[:i]).IsExported() {
			return false
		}
	}
	return true
}

func fieldName(sf reflect.StructField) (string, bool) {
	if tag, ok := sf.Tag.Lookup("hbs"); ok {
		tag, _, _ = strings.Cut(tag, ",")
		if tag == "-" {
			return "", true
		}
		if tag != "" {
			return tag, false
		}
	}
	return LowerCamel(sf.Name), false
}

// LowerCamel lowercases the leading upper-case run of a Go identifier:
// Name -> name, URL -> url, HTMLBody -> htmlBody.
func LowerCamel(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n > 1 && n < len(runes) && unicode.IsLower(runes[n]):
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
