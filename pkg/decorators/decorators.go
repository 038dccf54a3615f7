// Package decorators holds the default decorators.
package decorators

import (
	"fmt"

	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Defaults returns a fresh map of the default decorators keyed by name.
func Defaults() map[string]runtime.Decorator {
	return map[string]runtime.Decorator{
		"inline": Inline,
	}
}

// Inline registers the block body of `{{#* inline "name"}}...{{/inline}}`
// as a partial visible to the enclosing program.
func Inline(props *runtime.DecoratorProps, opts *runtime.DecoratorOptions) error {
	if len(opts.Args) != 1 {
		return runtime.NewException("inline requires exactly one argument", nil)
	}
	if opts.Program == nil {
		return runtime.NewException(fmt.Sprintf("inline %q requires a block", value.Stringify(opts.Args[0])), nil)
	}
	props.RegisterPartial(value.Stringify(opts.Args[0]), opts.Program)
	return nil
}
