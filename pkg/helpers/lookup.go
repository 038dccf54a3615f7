package helpers

import (
	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Lookup reads a dynamic member, `{{lookup obj field}}`, through the
// render's access policy.
func Lookup(args []any, opts *runtime.Options) (any, error) {
	var obj, field any
	if len(args) > 0 {
		obj = args[0]
	}
	if len(args) > 1 {
		field = args[1]
	}
	if !value.Truthy(obj) {
		return obj, nil
	}
	return opts.LookupProperty(obj, value.Stringify(field)), nil
}
