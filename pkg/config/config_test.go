package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/config"
	"github.com/goliatone/go-handlebars/pkg/helpers"
	"github.com/goliatone/go-handlebars/pkg/parser"
	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

func TestLoadOptions(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"options.yaml", "options.toml", "options.json"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			opts, err := config.LoadOptions(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !opts.Compile.NoEscape || opts.Compile.DataEnabled() {
				t.Fatalf("unexpected compile options %+v", opts.Compile)
			}
			if diff := cmp.Diff(map[string]any{"env": "prod"}, opts.Runtime.Data); diff != "" {
				t.Fatalf("data mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(map[string]bool{"fullName": true}, opts.Runtime.AllowedProtoMethods); diff != "" {
				t.Fatalf("allowed methods mismatch (-want +got):\n%s", diff)
			}
			def := opts.Runtime.AllowProtoPropertiesByDefault
			if def == nil || *def {
				t.Fatalf("expected explicit false default, got %v", def)
			}
			if opts.Runtime.AllowProtoMethodsByDefault != nil {
				t.Fatalf("expected unset method default")
			}
			if len(opts.Runtime.BlockParams) != 2 {
				t.Fatalf("expected two block params, got %v", opts.Runtime.BlockParams)
			}
			if n, ok := value.ToInt(opts.Runtime.BlockParams[0]); !ok || n != 1 {
				t.Fatalf("expected first block param 1, got %#v", opts.Runtime.BlockParams[0])
			}
			if opts.Runtime.BlockParams[1] != "two" {
				t.Fatalf("expected second block param two, got %#v", opts.Runtime.BlockParams[1])
			}
		})
	}
}

type helperEnv struct{}

func (helperEnv) Helper(name string) (any, bool) {
	h, ok := helpers.Defaults()[name]
	return h, ok
}
func (helperEnv) Hook(string) (any, bool)                    { return nil, false }
func (helperEnv) Partial(string) (*ast.Program, error)       { return nil, nil }
func (helperEnv) Decorator(string) (runtime.Decorator, bool) { return nil, false }

func TestLoadDataRendersTheSameInEveryFormat(t *testing.T) {
	t.Parallel()
	program, err := parser.Parse("{{title}}:{{#each items}}{{name}}{{/each}}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, name := range []string{"data.yaml", "data.toml", "data.json"} {
		data, err := config.LoadData(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		got, err := runtime.Render(program, helperEnv{}, data, runtime.CompileOptions{}, runtime.RuntimeOptions{})
		if err != nil {
			t.Fatalf("%s: render: %v", name, err)
		}
		if got != "Report:ab" {
			t.Errorf("%s: expected Report:ab, got %q", name, got)
		}
	}
}

func TestParseDataAutoDetects(t *testing.T) {
	t.Parallel()
	got, err := config.ParseData([]byte("a: 1\nb: [x]\n"), config.FormatAuto, "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]any{"a": 1, "b": []any{"x"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}

	got, err = config.ParseData([]byte(`[1, "x"]`), config.FormatAuto, "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]any{float64(1), "x"}, got); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadData(empty); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
	if _, err := config.LoadData(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := config.LoadData(""); err == nil {
		t.Fatalf("expected path error")
	}
	if _, err := config.ParseOptions([]byte("compile = ["), config.FormatTOML, "bad.toml"); err == nil || !strings.HasPrefix(err.Error(), "config: parse bad.toml") {
		t.Fatalf("expected toml error, got %v", err)
	}
	if _, err := config.ParseData([]byte("{: ["), config.FormatAuto, "bad"); err == nil || err.Error() != "config: parse bad: invalid JSON or YAML" {
		t.Fatalf("expected auto-detect error, got %v", err)
	}
}

func TestFormatFor(t *testing.T) {
	t.Parallel()
	cases := map[string]config.Format{
		"a.json": config.FormatJSON,
		"a.YML":  config.FormatYAML,
		"a.yaml": config.FormatYAML,
		"a.toml": config.FormatTOML,
		"a.txt":  config.FormatAuto,
	}
	for path, want := range cases {
		if got := config.FormatFor(path); got != want {
			t.Errorf("FormatFor(%q): expected %q, got %q", path, want, got)
		}
	}
}
