package precompile_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-handlebars/pkg/parser"
	"github.com/goliatone/go-handlebars/pkg/precompile"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

const template = `{{! header }}<h1>{{title}}</h1>
{{#each items as |item i|}}{{i}}:{{item.name}}{{else}}none{{/each}}
{{#if (lookup flags "on") includeZero=true}}{{{raw}}}{{^}}off{{/if}}
{{> card user title="x" n=1.5 ok=false nil=null}}{{#> layout}}body{{/layout}}
{{#*inline "row"}}{{@index}}{{../name}}{{/inline}}{{*deco}}{{> (pick undefined)}}`

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	program, err := parser.ParseNamed("page.hbs", template)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	noData := false
	spec := &precompile.Spec{AST: program, Options: runtime.CompileOptions{NoEscape: true, Data: &noData}}

	data, err := precompile.Encode(spec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := precompile.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(spec, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("spec mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()
	program, err := parser.Parse(template)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first, err := precompile.Encode(&precompile.Spec{AST: program})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := parser.Parse(template)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := precompile.Encode(&precompile.Spec{AST: again})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical encodings")
	}
}

func TestDecodedSpecRenders(t *testing.T) {
	t.Parallel()
	program, err := parser.Parse("{{#each xs}}{{this}}{{/each}}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data, err := precompile.Encode(&precompile.Spec{AST: program})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	spec, err := precompile.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	env := eachOnly{}
	got, err := runtime.Render(spec.AST, env, map[string]any{"xs": []int{1, 2}}, spec.Options, runtime.RuntimeOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "12" {
		t.Fatalf("expected 12, got %q", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	if _, err := precompile.Decode([]byte{0xff, 0x00}); err == nil || !strings.HasPrefix(err.Error(), "precompile: unmarshal spec") {
		t.Fatalf("expected unmarshal error, got %v", err)
	}

	future, err := cbor.Marshal(map[string]any{"v": 99})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := precompile.Decode(future); err == nil || err.Error() != "precompile: unsupported spec version 99" {
		t.Fatalf("expected version error, got %v", err)
	}

	if _, err := precompile.Encode(&precompile.Spec{}); err == nil {
		t.Fatalf("expected error for empty spec")
	}
}
