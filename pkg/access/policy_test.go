package access_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-handlebars/pkg/access"
	"github.com/goliatone/go-handlebars/pkg/value"
)

type Meta struct {
	Owner string
}

type account struct {
	Meta
	Name string
}

func (a account) Greeting() string { return "hello " + a.Name }

func (a account) Constructor() string { return "ctor" }

func captureWarnings(t *testing.T) *[]string {
	t.Helper()
	access.ResetLoggedProperties()
	var messages []string
	previous := access.SetWarningHandler(func(message string) {
		messages = append(messages, message)
	})
	t.Cleanup(func() {
		access.SetWarningHandler(previous)
		access.ResetLoggedProperties()
	})
	return &messages
}

func TestLookupOwnMembers(t *testing.T) {
	warnings := captureWarnings(t)
	policy := access.NewPolicy(access.Config{})

	cases := []struct {
		name string
		obj  any
		key  string
		want any
	}{
		{name: "map entry", obj: map[string]any{"a": 1}, key: "a", want: 1},
		{name: "own constructor key", obj: map[string]any{"constructor": "mine"}, key: "constructor", want: "mine"},
		{name: "slice index", obj: []string{"x", "y"}, key: "1", want: "y"},
		{name: "slice length", obj: []int{1, 2, 3}, key: "length", want: 3},
		{name: "struct field", obj: account{Name: "Ada"}, key: "name", want: "Ada"},
		{name: "struct pointer go name", obj: &account{Name: "Ada"}, key: "Name", want: "Ada"},
		{name: "int keyed map", obj: map[int]string{2: "two"}, key: "2", want: "two"},
		{name: "frame", obj: value.NewFrame(map[string]any{"index": 4}), key: "index", want: 4},
	}
	for _, tc := range cases {
		got, ok := policy.Lookup(tc.obj, tc.key)
		if !ok {
			t.Fatalf("%s: expected %q to resolve", tc.name, tc.key)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: value mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
	if len(*warnings) != 0 {
		t.Fatalf("own members must never warn, got %v", *warnings)
	}
}

func TestLookupAbsent(t *testing.T) {
	warnings := captureWarnings(t)
	policy := access.NewPolicy(access.Config{})

	if _, ok := policy.Lookup(nil, "a"); ok {
		t.Fatalf("nil objects have no members")
	}
	if _, ok := policy.Lookup(map[string]any{}, "missing"); ok {
		t.Fatalf("missing keys must not resolve")
	}
	if _, ok := policy.Lookup([]int{1}, "5"); ok {
		t.Fatalf("out of range indices must not resolve")
	}
	if len(*warnings) != 0 {
		t.Fatalf("absent members must not warn, got %v", *warnings)
	}
}

func TestInheritedMembersDeniedOnce(t *testing.T) {
	warnings := captureWarnings(t)
	policy := access.NewPolicy(access.Config{})
	obj := account{Meta: Meta{Owner: "root"}, Name: "Ada"}

	for i := 0; i < 2; i++ {
		if _, ok := policy.Lookup(obj, "owner"); ok {
			t.Fatalf("promoted fields are inherited and denied by default")
		}
		if _, ok := access.NewPolicy(access.Config{}).Lookup(obj, "greeting"); ok {
			t.Fatalf("methods are inherited and denied by default")
		}
	}

	if len(*warnings) != 2 {
		t.Fatalf("expected one warning per name, got %d: %v", len(*warnings), *warnings)
	}
	want := access.DeniedMessage("owner")
	if (*warnings)[0] != want {
		t.Fatalf("diagnostic mismatch\nwant: %q\n got: %q", want, (*warnings)[0])
	}
	if !strings.Contains(want, `"owner" because it is not an "own property" of its parent`) {
		t.Fatalf("diagnostic must name the property, got %q", want)
	}
}

func TestInheritedMembersAllowed(t *testing.T) {
	warnings := captureWarnings(t)
	obj := account{Meta: Meta{Owner: "root"}, Name: "Ada"}

	byList := access.NewPolicy(access.Config{
		AllowedProtoProperties: map[string]bool{"owner": true},
		AllowedProtoMethods:    map[string]bool{"greeting": true},
	})
	if got, ok := byList.Lookup(obj, "owner"); !ok || got != "root" {
		t.Fatalf("allow-listed property should resolve, got %v %v", got, ok)
	}
	fn, ok := byList.Lookup(obj, "greeting")
	if !ok {
		t.Fatalf("allow-listed method should resolve")
	}
	if got := fn.(func() string)(); got != "hello Ada" {
		t.Fatalf("method must be bound to its receiver, got %q", got)
	}

	byDefault := access.NewPolicy(access.Config{
		AllowProtoPropertiesByDefault: access.Bool(true),
		AllowProtoMethodsByDefault:    access.Bool(true),
	})
	if _, ok := byDefault.Lookup(obj, "owner"); !ok {
		t.Fatalf("default allow should admit promoted fields")
	}
	if _, ok := byDefault.Lookup(obj, "constructor"); ok {
		t.Fatalf("constructor must stay denied regardless of defaults")
	}

	listed := access.NewPolicy(access.Config{AllowedProtoMethods: map[string]bool{"constructor": true}})
	if _, ok := listed.Lookup(obj, "constructor"); ok {
		t.Fatalf("constructor must stay denied regardless of allow lists")
	}

	if len(*warnings) != 0 {
		t.Fatalf("configured decisions must not warn, got %v", *warnings)
	}
}

func TestExplicitDenySilent(t *testing.T) {
	warnings := captureWarnings(t)
	obj := account{Meta: Meta{Owner: "root"}}

	policy := access.NewPolicy(access.Config{
		AllowedProtoProperties:        map[string]bool{"owner": false},
		AllowProtoMethodsByDefault:    access.Bool(false),
		AllowProtoPropertiesByDefault: access.Bool(true),
	})
	if _, ok := policy.Lookup(obj, "owner"); ok {
		t.Fatalf("explicit false must deny")
	}
	if _, ok := policy.Lookup(obj, "greeting"); ok {
		t.Fatalf("explicit default false must deny")
	}
	if len(*warnings) != 0 {
		t.Fatalf("explicit denials are silent, got %v", *warnings)
	}
}

func TestLookupPath(t *testing.T) {
	captureWarnings(t)
	var policy *access.Policy
	obj := map[string]any{"a": map[string]any{"b": []any{"zero", "one"}}}

	got, ok := policy.LookupPath(obj, []string{"a", "b", "1"})
	if !ok || got != "one" {
		t.Fatalf("expected nested lookup, got %v %v", got, ok)
	}
	if _, ok := policy.LookupPath(obj, []string{"a", "x", "1"}); ok {
		t.Fatalf("a missing hop must short-circuit")
	}
	if got, ok := policy.LookupPath(obj, nil); !ok || !value.Same(got, obj) {
		t.Fatalf("an empty path yields the object itself")
	}
}

func TestOwnKeys(t *testing.T) {
	t.Parallel()
	got := access.OwnKeys(account{Name: "Ada"})
	if diff := cmp.Diff([]string{"name"}, got); diff != "" {
		t.Fatalf("own keys mismatch (-want +got):\n%s", diff)
	}
	props := access.OwnProperties(map[string]any{"b": 2, "a": 1})
	if diff := cmp.Diff(map[string]any{"a": 1, "b": 2}, props); diff != "" {
		t.Fatalf("own properties mismatch (-want +got):\n%s", diff)
	}
}
