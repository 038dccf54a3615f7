// Package helpers implements the default helper library: conditionals,
// iteration, scoping, lookup, logging, the missing-helper fallbacks and
// HTML sanitizing.
package helpers

import (
	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Defaults returns a fresh map of the default helpers keyed by name. The
// fallbacks are included under runtime.HelperMissing and
// runtime.BlockHelperMissing; callers usually move them to hooks.
func Defaults() map[string]any {
	return map[string]any{
		"if":                       runtime.HelperFunc(If),
		"unless":                   runtime.HelperFunc(Unless),
		"each":                     runtime.HelperFunc(Each),
		"with":                     runtime.HelperFunc(With),
		"lookup":                   runtime.HelperFunc(Lookup),
		"log":                      runtime.HelperFunc(Log),
		"sanitize":                 runtime.HelperFunc(Sanitize),
		runtime.HelperMissing:      runtime.HelperFunc(HelperMissing),
		runtime.BlockHelperMissing: runtime.HelperFunc(BlockHelperMissing),
	}
}

func arityError(message string) error {
	return runtime.Errorf(runtime.ErrArity, nil, "%s", message)
}

// resolve calls a function-valued argument with no arguments and returns
// its result; other values pass through.
func resolve(v any, opts *runtime.Options) (any, error) {
	if !value.IsCallable(v) {
		return v, nil
	}
	return runtime.Call(v, nil, opts)
}
