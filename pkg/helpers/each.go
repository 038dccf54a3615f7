package helpers

import (
	"strings"

	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Each renders the primary block once per element of a sequence, entry of
// a map (by sorted key) or field of a struct. Every iteration sees @index,
// @key, @first and @last and binds |value key|. With nothing to iterate
// the inverse block renders instead.
func Each(args []any, opts *runtime.Options) (any, error) {
	if len(args) != 1 {
		return nil, arityError("Must pass iterator to #each")
	}
	ctx, err := resolve(args[0], opts)
	if err != nil {
		return nil, err
	}

	entries := value.Entries(ctx)
	if len(entries) == 0 {
		return opts.Inverse(opts.This)
	}

	var frame *value.Frame
	if opts.Data != nil {
		frame = opts.Data.Child()
	}

	var b strings.Builder
	last := len(entries) - 1
	for i, entry := range entries {
		if frame != nil {
			frame.Set("key", entry.Key)
			frame.Set("index", i)
			frame.Set("first", i == 0)
			frame.Set("last", i == last)
		}
		out, err := opts.Fn(entry.Value, runtime.WithData(frame), runtime.WithBlockParams(entry.Value, entry.Key))
		if err != nil {
			return nil, err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
