package handlebars

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/parser"
	"github.com/goliatone/go-handlebars/pkg/precompile"
	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Template is a compiled template bound to the instance that compiled it.
// The source is parsed on first use and the result is kept; concurrent
// first uses may parse more than once but always agree on the outcome.
type Template struct {
	hb       *Handlebars
	name     string
	source   string
	options  runtime.CompileOptions
	prepared atomic.Pointer[prepared]
}

type prepared struct {
	program *ast.Program
	err     error
}

func (h *Handlebars) newTemplate(name, source string, opts runtime.CompileOptions) *Template {
	return &Template{hb: h, name: name, source: source, options: opts}
}

func (h *Handlebars) programTemplate(program *ast.Program, opts runtime.CompileOptions) *Template {
	t := &Template{hb: h, name: program.Loc.Source, options: opts}
	t.prepared.Store(&prepared{program: program})
	return t
}

// Compile prepares input, template source or a parsed *ast.Program, for
// rendering. Parsing is deferred to the first render.
func (h *Handlebars) Compile(input any, opts runtime.CompileOptions) (*Template, error) {
	return h.CompileNamed("", input, opts)
}

// CompileNamed is Compile with a source name used in error locations.
func (h *Handlebars) CompileNamed(name string, input any, opts runtime.CompileOptions) (*Template, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	switch in := input.(type) {
	case string:
		return h.newTemplate(name, in, opts), nil
	case *ast.Program:
		if in != nil {
			return h.programTemplate(in, opts), nil
		}
	}
	return nil, runtime.Errorf(ErrInvalidInput, nil,
		"You must pass a string or Handlebars AST to Handlebars.compile. You passed %s", value.Stringify(input))
}

// MustCompile is Compile that panics on error.
func (h *Handlebars) MustCompile(input any, opts runtime.CompileOptions) *Template {
	t, err := h.Compile(input, opts)
	if err != nil {
		panic(err)
	}
	return t
}

// Precompile parses source eagerly and returns it with its options, ready
// for precompile.Encode.
func (h *Handlebars) Precompile(source string, opts runtime.CompileOptions) (*precompile.Spec, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return &precompile.Spec{AST: program, Options: opts}, nil
}

// Template binds a precompiled spec to this instance.
func (h *Handlebars) Template(spec *precompile.Spec) (*Template, error) {
	if spec == nil || spec.AST == nil {
		return nil, fmt.Errorf("%w: precompiled spec has no AST", ErrInvalidInput)
	}
	return h.programTemplate(spec.AST, spec.Options), nil
}

func validateOptions(opts runtime.CompileOptions) error {
	if opts.TrackIDs || opts.StringParams {
		return runtime.Errorf(ErrLegacyOption, nil, "TrackIds and stringParams are no longer supported. See Github #1145")
	}
	return nil
}

// Program returns the parsed tree, parsing it on first call.
func (t *Template) Program() (*ast.Program, error) {
	if p := t.prepared.Load(); p != nil {
		return p.program, p.err
	}
	program, err := parser.ParseNamed(t.name, t.source)
	t.prepared.CompareAndSwap(nil, &prepared{program: program, err: err})
	p := t.prepared.Load()
	return p.program, p.err
}

// Options returns the compile options.
func (t *Template) Options() runtime.CompileOptions {
	return t.options
}

// Exec renders the template against ctx with default runtime options.
func (t *Template) Exec(ctx any) (string, error) {
	return t.Render(ctx, runtime.RuntimeOptions{})
}

// MustExec is Exec that panics on error.
func (t *Template) MustExec(ctx any) string {
	out, err := t.Exec(ctx)
	if err != nil {
		panic(err)
	}
	return out
}

// Render renders the template against ctx in a new session.
func (t *Template) Render(ctx any, opts runtime.RuntimeOptions) (string, error) {
	program, err := t.Program()
	if err != nil {
		return "", err
	}
	return runtime.Render(program, t.hb, ctx, t.options, opts)
}

// Write renders the template and copies the output to w.
func (t *Template) Write(w io.Writer, ctx any, opts runtime.RuntimeOptions) error {
	out, err := t.Render(ctx, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
