package helpers

import (
	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// If renders the primary block when its single argument is truthy. Zero
// counts as truthy with includeZero=true.
func If(args []any, opts *runtime.Options) (any, error) {
	if len(args) != 1 {
		return nil, arityError("#if requires exactly one argument")
	}
	return conditional(args[0], opts, false)
}

// Unless is If with the blocks swapped.
func Unless(args []any, opts *runtime.Options) (any, error) {
	if len(args) != 1 {
		return nil, arityError("#unless requires exactly one argument")
	}
	return conditional(args[0], opts, true)
}

func conditional(cond any, opts *runtime.Options, negate bool) (any, error) {
	cond, err := resolve(cond, opts)
	if err != nil {
		return nil, err
	}
	includeZero := value.Truthy(opts.HashArg("includeZero"))
	falsy := (!includeZero && !value.Truthy(cond)) || value.IsEmpty(cond)
	if falsy != negate {
		return opts.Inverse(opts.This)
	}
	return opts.Fn(opts.This)
}
