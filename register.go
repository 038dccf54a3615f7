package handlebars

import (
	"fmt"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// RegisterHelper adds or replaces the helper called name. fn may be a
// runtime.HelperFunc or any func; see runtime.Call for how arguments are
// passed.
func (h *Handlebars) RegisterHelper(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("handlebars: helper name is required")
	}
	if !value.IsCallable(fn) {
		return fmt.Errorf("handlebars: helper %q must be a function, got %T", name, fn)
	}
	h.helpers.Set(name, fn)
	return nil
}

// RegisterHelpers registers every entry of fns.
func (h *Handlebars) RegisterHelpers(fns map[string]any) error {
	for name, fn := range fns {
		if err := h.RegisterHelper(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterHelper removes a helper.
func (h *Handlebars) UnregisterHelper(name string) {
	h.helpers.Delete(name)
}

// IsHelper reports whether name is a registered helper.
func (h *Handlebars) IsHelper(name string) bool {
	return h.helpers.Has(name)
}

// Helpers lists the registered helper names.
func (h *Handlebars) Helpers() []string {
	return h.helpers.List()
}

// RegisterHook replaces the helperMissing or blockHelperMissing hook.
func (h *Handlebars) RegisterHook(name string, fn any) error {
	if name != runtime.HelperMissing && name != runtime.BlockHelperMissing {
		return fmt.Errorf("handlebars: unknown hook %q", name)
	}
	if !value.IsCallable(fn) {
		return fmt.Errorf("handlebars: hook %q must be a function, got %T", name, fn)
	}
	h.hooks.Set(name, fn)
	return nil
}

// RegisterPartial adds or replaces the partial called name. partial is
// template source, a parsed *ast.Program or a compiled *Template.
func (h *Handlebars) RegisterPartial(name string, partial any) error {
	var tmpl *Template
	switch p := partial.(type) {
	case nil:
		return runtime.Errorf(ErrInvalidInput, nil, "Attempting to register a partial called \"%s\" as undefined", name)
	case string:
		tmpl = h.newTemplate(name, p, runtime.CompileOptions{})
	case *ast.Program:
		if p == nil {
			return runtime.Errorf(ErrInvalidInput, nil, "Attempting to register a partial called \"%s\" as undefined", name)
		}
		tmpl = h.programTemplate(p, runtime.CompileOptions{})
	case *Template:
		if p == nil {
			return runtime.Errorf(ErrInvalidInput, nil, "Attempting to register a partial called \"%s\" as undefined", name)
		}
		tmpl = p
	default:
		return fmt.Errorf("%w: partial %q must be a string, *ast.Program or *Template, got %T", ErrInvalidInput, name, partial)
	}
	h.partials.Set(name, tmpl)
	return nil
}

// RegisterPartials registers every entry of partials.
func (h *Handlebars) RegisterPartials(partials map[string]any) error {
	for name, partial := range partials {
		if err := h.RegisterPartial(name, partial); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterPartial removes a partial.
func (h *Handlebars) UnregisterPartial(name string) {
	h.partials.Delete(name)
}

// Partials lists the registered partial names.
func (h *Handlebars) Partials() []string {
	return h.partials.List()
}

// RegisterDecorator adds or replaces the decorator called name.
func (h *Handlebars) RegisterDecorator(name string, fn runtime.Decorator) error {
	if name == "" {
		return fmt.Errorf("handlebars: decorator name is required")
	}
	if fn == nil {
		return fmt.Errorf("handlebars: decorator %q is nil", name)
	}
	h.decorators.Set(name, fn)
	return nil
}

// UnregisterDecorator removes a decorator.
func (h *Handlebars) UnregisterDecorator(name string) {
	h.decorators.Delete(name)
}

// RunHelper calls the helper called name outside of a render, falling back
// to the helperMissing hook when there is none.
func (h *Handlebars) RunHelper(name string, args []any, opts *runtime.Options) (any, error) {
	if opts == nil {
		opts = &runtime.Options{}
	}
	if opts.Name == "" {
		opts.Name = name
	}
	if fn, ok := h.helpers.Lookup(name); ok {
		return runtime.Call(fn, args, opts)
	}
	return h.RunHook(runtime.HelperMissing, args, opts)
}

// RunHook calls the hook called name outside of a render.
func (h *Handlebars) RunHook(name string, args []any, opts *runtime.Options) (any, error) {
	fn, ok := h.hooks.Lookup(name)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrMissingHelper, nil, "Missing helper: \"%s\"", name)
	}
	if opts == nil {
		opts = &runtime.Options{Name: name}
	}
	return runtime.Call(fn, args, opts)
}
