package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-handlebars/pkg/ast"
)

func TestPathClassification(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path   ast.PathExpression
		scoped bool
		simple bool
	}{
		{path: ast.PathExpression{Parts: []string{"name"}, Original: "name"}, simple: true},
		{path: ast.PathExpression{Parts: []string{"name"}, Original: "./name"}, scoped: true},
		{path: ast.PathExpression{Parts: []string{"name"}, Original: "this.name"}, scoped: true},
		{path: ast.PathExpression{Parts: nil, Original: "this"}, scoped: true},
		{path: ast.PathExpression{Parts: []string{"name"}, Original: "../name", Depth: 1}, scoped: true},
		{path: ast.PathExpression{Parts: []string{"a", "b"}, Original: "a.b"}},
		{path: ast.PathExpression{Parts: []string{"thistle"}, Original: "thistle"}, simple: true},
	}
	for _, tc := range cases {
		if got := ast.IsScopedID(&tc.path); got != tc.scoped {
			t.Errorf("IsScopedID(%q) = %v, want %v", tc.path.Original, got, tc.scoped)
		}
		if got := ast.IsSimpleID(&tc.path); got != tc.simple {
			t.Errorf("IsSimpleID(%q) = %v, want %v", tc.path.Original, got, tc.simple)
		}
	}
}

func TestIsHelperExpression(t *testing.T) {
	t.Parallel()
	path := &ast.PathExpression{Parts: []string{"x"}, Original: "x"}
	cases := []struct {
		name string
		node ast.Node
		want bool
	}{
		{name: "sub-expression", node: &ast.SubExpression{Path: path}, want: true},
		{name: "bare mustache", node: &ast.MustacheStatement{Path: path}},
		{name: "mustache with params", node: &ast.MustacheStatement{Path: path, Params: []ast.Expression{path}}, want: true},
		{name: "block with hash", node: &ast.BlockStatement{Path: path, Hash: &ast.Hash{}}, want: true},
		{name: "content", node: &ast.ContentStatement{Value: "x"}},
	}
	for _, tc := range cases {
		if got := ast.IsHelperExpression(tc.node); got != tc.want {
			t.Errorf("%s: IsHelperExpression = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLiteralToPath(t *testing.T) {
	t.Parallel()
	loc := ast.Loc{Start: ast.Position{Line: 1, Column: 2}}
	got := ast.LiteralToPath(&ast.NumberLiteral{Value: 0, Original: "0", Loc: loc})
	want := &ast.PathExpression{Parts: []string{"0"}, Original: "0", Loc: loc}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("number literal mismatch (-want +got):\n%s", diff)
	}

	got = ast.LiteralToPath(&ast.BooleanLiteral{Value: false})
	if diff := cmp.Diff([]string{"false"}, got.Parts); diff != "" {
		t.Fatalf("boolean literal mismatch (-want +got):\n%s", diff)
	}

	path := &ast.PathExpression{Parts: []string{"x"}, Original: "x"}
	if ast.LiteralToPath(path) != path {
		t.Fatalf("paths must be returned unchanged")
	}
}
