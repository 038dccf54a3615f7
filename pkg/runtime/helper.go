package runtime

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// HelperFunc is the reflection-free helper signature. Any other func value
// can be registered too; see Call.
type HelperFunc func(args []any, opts *Options) (any, error)

// Options is handed to every helper invocation as its last argument.
type Options struct {
	// Name is the callee as written in the template.
	Name string
	Hash map[string]any
	// Data is the innermost private-data frame, nil when data is disabled.
	Data *value.Frame
	Loc  ast.Loc
	// This is the evaluation subject at the call site.
	This any
	// BlockParams counts the parameters declared by the primary block.
	BlockParams int

	block   bool
	fn      *ast.Program
	inverse *ast.Program
	eval    *evaluator
}

// IsBlock reports whether the helper was invoked as `{{#name}}`.
func (o *Options) IsBlock() bool { return o != nil && o.block }

// Fn renders the primary block against ctx.
func (o *Options) Fn(ctx any, opts ...BlockOption) (string, error) {
	if o == nil || o.eval == nil {
		return "", nil
	}
	return o.eval.runBlock(o.fn, ctx, opts)
}

// Inverse renders the {{else}} block against ctx.
func (o *Options) Inverse(ctx any, opts ...BlockOption) (string, error) {
	if o == nil || o.eval == nil {
		return "", nil
	}
	return o.eval.runBlock(o.inverse, ctx, opts)
}

// LookupProperty reads name from obj under the render's access policy.
func (o *Options) LookupProperty(obj any, name string) any {
	if o == nil || o.eval == nil {
		return nil
	}
	v, _ := o.eval.session.scope.LookupProperty(obj, name)
	return v
}

// HashArg returns a hash argument, or nil.
func (o *Options) HashArg(key string) any {
	if o == nil {
		return nil
	}
	return o.Hash[key]
}

type blockArgs struct {
	data        *value.Frame
	blockParams []any
}

// BlockOption adjusts how Fn and Inverse render a block.
type BlockOption func(*blockArgs)

// WithData renders the block with frame as its private data.
func WithData(frame *value.Frame) BlockOption {
	return func(args *blockArgs) {
		args.data = frame
	}
}

// WithBlockParams binds values to the block's declared parameters.
func WithBlockParams(values ...any) BlockOption {
	return func(args *blockArgs) {
		args.blockParams = values
	}
}

var (
	optionsType = reflect.TypeOf((*Options)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Call invokes fn with args. HelperFunc values are called directly. Other
// funcs are called through reflection: arguments are converted to the
// declared parameter types, opts is appended when the last parameter is
// *Options, variadic parameters absorb extra arguments, and a trailing error
// result is returned as the error.
func Call(fn any, args []any, opts *Options) (any, error) {
	switch f := fn.(type) {
	case HelperFunc:
		return f(args, opts)
	case func([]any, *Options) (any, error):
		return f(args, opts)
	}

	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, Errorf(ErrMissingHelper, nil, "%s is not a function", helperName(opts))
	}

	t := rv.Type()
	numIn := t.NumIn()
	takesOptions := numIn > 0 && t.In(numIn-1) == optionsType && !t.IsVariadic()
	fixed := numIn
	if takesOptions {
		fixed--
	}
	if t.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, arityError(opts, len(args), fmt.Sprintf("at least %d", fixed))
		}
	} else if len(args) != fixed {
		return nil, arityError(opts, len(args), fmt.Sprint(fixed))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	for i, arg := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= fixed {
			pt = t.In(numIn - 1).Elem()
		} else {
			pt = t.In(i)
		}
		v, err := convertArg(arg, pt)
		if err != nil {
			return nil, Errorf(err, nil, "%s: argument %d: %v", helperName(opts), i+1, err)
		}
		in = append(in, v)
	}
	if takesOptions {
		in = append(in, reflect.ValueOf(opts))
	}
	return results(rv.Call(in))
}

func helperName(opts *Options) string {
	if opts == nil || opts.Name == "" {
		return "helper"
	}
	return fmt.Sprintf("helper %q", opts.Name)
}

func arityError(opts *Options, got int, want string) error {
	e := Errorf(ErrArity, nil, "%s called with %d argument(s), expected %s", helperName(opts), got, want)
	if opts != nil {
		e.Line, e.Column, e.Source = opts.Loc.Start.Line, opts.Loc.Start.Column, opts.Loc.Source
	}
	return e
}

func convertArg(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(value.Stringify(arg)).Convert(t), nil
	case reflect.Bool:
		return reflect.ValueOf(value.Truthy(arg)).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if f, ok := value.ToNumber(arg); ok {
			return reflect.ValueOf(f).Convert(t), nil
		}
	default:
		if v.Kind() == t.Kind() && v.Type().ConvertibleTo(t) {
			return v.Convert(t), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, t)
}

func results(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			err, _ := out[0].Interface().(error)
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		if last.Type() == errorType {
			err, _ := last.Interface().(error)
			if err != nil {
				return nil, err
			}
		}
		return out[0].Interface(), nil
	}
}
