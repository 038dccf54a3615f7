package helpers

import (
	"reflect"

	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// HelperMissing renders nothing for a bare unknown name and fails when the
// unknown name was called with arguments.
func HelperMissing(args []any, opts *runtime.Options) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	return nil, runtime.Errorf(runtime.ErrMissingHelper, nil, "Missing helper: \"%s\"", opts.Name)
}

// BlockHelperMissing renders `{{#name}}` blocks whose name is not a helper:
// true renders the block against the current subject, a non-empty sequence
// iterates, any other truthy value becomes the subject, and everything else
// (false, nil, "", empty sequences, zero unless includeZero) renders the
// inverse.
func BlockHelperMissing(args []any, opts *runtime.Options) (any, error) {
	var ctx any
	if len(args) > 0 {
		ctx = args[0]
	}

	switch {
	case ctx == true:
		return opts.Fn(opts.This)
	case value.IsSequence(ctx):
		if reflect.ValueOf(ctx).Len() == 0 {
			return opts.Inverse(opts.This)
		}
		return Each([]any{ctx}, opts)
	case value.IsZeroNumber(ctx) && value.Truthy(opts.HashArg("includeZero")):
		return opts.Fn(ctx, runtime.WithData(opts.Data))
	case !value.Truthy(ctx):
		return opts.Inverse(opts.This)
	}
	return opts.Fn(ctx, runtime.WithData(opts.Data))
}
