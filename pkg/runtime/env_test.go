package runtime_test

import (
	"testing"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/decorators"
	"github.com/goliatone/go-handlebars/pkg/helpers"
	"github.com/goliatone/go-handlebars/pkg/parser"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

// testEnv is a map-backed Environment wired with the default helpers,
// hooks and decorators.
type testEnv struct {
	helpers    map[string]any
	hooks      map[string]any
	partials   map[string]*ast.Program
	decorators map[string]runtime.Decorator
}

func newTestEnv() *testEnv {
	env := &testEnv{
		helpers:    helpers.Defaults(),
		hooks:      map[string]any{},
		partials:   map[string]*ast.Program{},
		decorators: decorators.Defaults(),
	}
	for _, name := range []string{runtime.HelperMissing, runtime.BlockHelperMissing} {
		env.hooks[name] = env.helpers[name]
		delete(env.helpers, name)
	}
	return env
}

func (e *testEnv) Helper(name string) (any, bool) {
	h, ok := e.helpers[name]
	return h, ok
}

func (e *testEnv) Hook(name string) (any, bool) {
	h, ok := e.hooks[name]
	return h, ok
}

func (e *testEnv) Partial(name string) (*ast.Program, error) {
	return e.partials[name], nil
}

func (e *testEnv) Decorator(name string) (runtime.Decorator, bool) {
	d, ok := e.decorators[name]
	return d, ok
}

func (e *testEnv) partial(t *testing.T, name, source string) *testEnv {
	t.Helper()
	e.partials[name] = mustParse(t, source)
	return e
}

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return program
}

func render(t *testing.T, env runtime.Environment, source string, ctx any) string {
	t.Helper()
	return renderWith(t, env, source, ctx, runtime.CompileOptions{}, runtime.RuntimeOptions{})
}

func renderWith(t *testing.T, env runtime.Environment, source string, ctx any, compile runtime.CompileOptions, rt runtime.RuntimeOptions) string {
	t.Helper()
	out, err := runtime.Render(mustParse(t, source), env, ctx, compile, rt)
	if err != nil {
		t.Fatalf("render %q: %v", source, err)
	}
	return out
}

func renderErr(t *testing.T, env runtime.Environment, source string, ctx any) error {
	t.Helper()
	out, err := runtime.Render(mustParse(t, source), env, ctx, runtime.CompileOptions{}, runtime.RuntimeOptions{})
	if err == nil {
		t.Fatalf("render %q: expected error, got %q", source, out)
	}
	if out != "" {
		t.Fatalf("render %q: expected no output on error, got %q", source, out)
	}
	return err
}
