package handlebars

import (
	"github.com/goliatone/go-handlebars/pkg/precompile"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

// Default is the package-level instance used by the top-level functions.
var Default = MustNew()

// Create returns a fresh instance with only the defaults registered.
func Create() *Handlebars {
	return MustNew()
}

// Compile compiles input on the Default instance.
func Compile(input any, opts runtime.CompileOptions) (*Template, error) {
	return Default.Compile(input, opts)
}

// Precompile parses source on the Default instance.
func Precompile(source string, opts runtime.CompileOptions) (*precompile.Spec, error) {
	return Default.Precompile(source, opts)
}

// TemplateFromSpec binds a precompiled spec to the Default instance.
func TemplateFromSpec(spec *precompile.Spec) (*Template, error) {
	return Default.Template(spec)
}

// Render compiles source on the Default instance and renders it once.
func Render(source string, ctx any) (string, error) {
	t, err := Default.Compile(source, runtime.CompileOptions{})
	if err != nil {
		return "", err
	}
	return t.Exec(ctx)
}

// RegisterHelper registers a helper on the Default instance.
func RegisterHelper(name string, fn any) error {
	return Default.RegisterHelper(name, fn)
}

// UnregisterHelper removes a helper from the Default instance.
func UnregisterHelper(name string) {
	Default.UnregisterHelper(name)
}

// RegisterPartial registers a partial on the Default instance.
func RegisterPartial(name string, partial any) error {
	return Default.RegisterPartial(name, partial)
}

// UnregisterPartial removes a partial from the Default instance.
func UnregisterPartial(name string) {
	Default.UnregisterPartial(name)
}

// RegisterDecorator registers a decorator on the Default instance.
func RegisterDecorator(name string, fn runtime.Decorator) error {
	return Default.RegisterDecorator(name, fn)
}

// UnregisterDecorator removes a decorator from the Default instance.
func UnregisterDecorator(name string) {
	Default.UnregisterDecorator(name)
}
