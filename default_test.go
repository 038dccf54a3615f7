package handlebars_test

import (
	"testing"

	handlebars "github.com/goliatone/go-handlebars"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

// Default is shared process state, so these tests do not run in parallel.
func TestDefaultInstance(t *testing.T) {
	if err := handlebars.RegisterHelper("defaultPing", func() string { return "pong" }); err != nil {
		t.Fatalf("RegisterHelper() error = %v", err)
	}
	defer handlebars.UnregisterHelper("defaultPing")

	if err := handlebars.RegisterPartial("defaultWrap", "({{> @partial-block}})"); err != nil {
		t.Fatalf("RegisterPartial() error = %v", err)
	}
	defer handlebars.UnregisterPartial("defaultWrap")

	got, err := handlebars.Render("{{#> defaultWrap}}{{defaultPing}}{{/defaultWrap}}", nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "(pong)" {
		t.Fatalf("Render() = %q, want %q", got, "(pong)")
	}

	if handlebars.Create().IsHelper("defaultPing") {
		t.Fatalf("Create() shares helpers with Default")
	}
}

func TestDefaultPrecompile(t *testing.T) {
	spec, err := handlebars.Precompile("{{a}}-{{b}}", runtime.CompileOptions{})
	if err != nil {
		t.Fatalf("Precompile() error = %v", err)
	}
	tmpl, err := handlebars.TemplateFromSpec(spec)
	if err != nil {
		t.Fatalf("TemplateFromSpec() error = %v", err)
	}
	got, err := tmpl.Exec(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if got != "1-2" {
		t.Fatalf("Exec() = %q, want %q", got, "1-2")
	}

	tmpl, err = handlebars.Compile("{{#each this}}{{@key}}{{/each}}", runtime.CompileOptions{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := tmpl.MustExec(map[string]int{"b": 1, "a": 2}); got != "ab" {
		t.Fatalf("MustExec() = %q, want %q", got, "ab")
	}
}

func TestDefaultDecorators(t *testing.T) {
	called := 0
	err := handlebars.RegisterDecorator("defaultCount", func(*runtime.DecoratorProps, *runtime.DecoratorOptions) error {
		called++
		return nil
	})
	if err != nil {
		t.Fatalf("RegisterDecorator() error = %v", err)
	}
	defer handlebars.UnregisterDecorator("defaultCount")

	if _, err := handlebars.Render("{{* defaultCount}}{{* defaultCount}}", nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if called != 2 {
		t.Fatalf("decorator called %d times, want 2", called)
	}
}
