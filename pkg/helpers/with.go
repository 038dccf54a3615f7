package helpers

import (
	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// With renders the primary block with its argument as the subject, bound to
// the block's first parameter.
func With(args []any, opts *runtime.Options) (any, error) {
	if len(args) != 1 {
		return nil, arityError("#with requires exactly one argument")
	}
	ctx, err := resolve(args[0], opts)
	if err != nil {
		return nil, err
	}
	if value.IsEmpty(ctx) {
		return opts.Inverse(opts.This)
	}
	return opts.Fn(ctx, runtime.WithData(opts.Data), runtime.WithBlockParams(ctx))
}
