package value_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-handlebars/pkg/value"
)

func TestStringify(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "hi", want: "hi"},
		{name: "safe", in: value.SafeString("<b>"), want: "<b>"},
		{name: "bool", in: false, want: "false"},
		{name: "int", in: 12, want: "12"},
		{name: "uint8", in: uint8(7), want: "7"},
		{name: "float integral", in: 3.0, want: "3"},
		{name: "float fraction", in: 1.5, want: "1.5"},
		{name: "large float", in: 1e21, want: "1e+21"},
		{name: "tiny float", in: 1e-7, want: "1e-7"},
		{name: "nan", in: math.NaN(), want: "NaN"},
		{name: "infinity", in: math.Inf(-1), want: "-Infinity"},
		{name: "slice", in: []any{1, "a", nil}, want: "1,a,"},
		{name: "map", in: map[string]any{"a": 1}, want: "[object Object]"},
		{name: "error", in: errors.New("boom"), want: "boom"},
		{name: "pointer", in: ptr("deref"), want: "deref"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := value.Stringify(tc.in); got != tc.want {
				t.Fatalf("Stringify(%#v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want any
	}{
		{name: "ints", a: 1, b: 2, want: int64(3)},
		{name: "bool and int", a: true, b: 2, want: int64(3)},
		{name: "float", a: 1.5, b: 1, want: 2.5},
		{name: "strings", a: "1", b: "2", want: "12"},
		{name: "number and string", a: 1, b: "2", want: "12"},
		{name: "nil and string", a: nil, b: "x", want: "x"},
		{name: "small unsigned", a: uint8(2), b: uint64(3), want: int64(5)},
		{name: "unsigned past int64", a: uint64(1 << 63), b: uint64(1), want: float64(1<<63) + 1},
		{name: "positive overflow", a: int64(math.MaxInt64), b: 1, want: float64(math.MaxInt64) + 1},
		{name: "negative overflow", a: int64(math.MinInt64), b: int64(-1), want: float64(math.MinInt64) - 1},
		{name: "no overflow at edge", a: int64(math.MaxInt64), b: int64(-1), want: int64(math.MaxInt64 - 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, value.Add(tc.a, tc.b)); diff != "" {
				t.Fatalf("Add mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruthyAndEmpty(t *testing.T) {
	var nilMap map[string]any
	cases := []struct {
		in     any
		truthy bool
		empty  bool
	}{
		{in: nil, truthy: false, empty: true},
		{in: false, truthy: false, empty: true},
		{in: 0, truthy: false, empty: false},
		{in: 0.0, truthy: false, empty: false},
		{in: math.NaN(), truthy: false, empty: true},
		{in: "", truthy: false, empty: true},
		{in: "x", truthy: true, empty: false},
		{in: []any{}, truthy: true, empty: true},
		{in: []int{1}, truthy: true, empty: false},
		{in: map[string]any{}, truthy: true, empty: false},
		{in: nilMap, truthy: false, empty: true},
		{in: struct{}{}, truthy: true, empty: false},
	}
	for _, tc := range cases {
		if got := value.Truthy(tc.in); got != tc.truthy {
			t.Errorf("Truthy(%#v) = %v, want %v", tc.in, got, tc.truthy)
		}
		if got := value.IsEmpty(tc.in); got != tc.empty {
			t.Errorf("IsEmpty(%#v) = %v, want %v", tc.in, got, tc.empty)
		}
	}
}

func TestSame(t *testing.T) {
	m := map[string]any{"a": 1}
	other := map[string]any{"a": 1}
	s := []int{1, 2}

	if !value.Same(m, m) {
		t.Fatalf("expected a map to be the same as itself")
	}
	if value.Same(m, other) {
		t.Fatalf("expected distinct maps to differ")
	}
	if !value.Same(s, s) || value.Same(s, s[:1]) {
		t.Fatalf("slice identity should include length")
	}
	if !value.Same("a", "a") || value.Same("a", "b") {
		t.Fatalf("strings compare by value")
	}
	if value.Same(1, int64(1)) {
		t.Fatalf("different types are never the same")
	}
	if !value.Same(nil, nil) || value.Same(nil, 0) {
		t.Fatalf("nil only matches nil")
	}
}

func TestEscape(t *testing.T) {
	got := value.Escape(`<a href="x">&'` + "`=")
	want := "&lt;a href&#x3D;&quot;x&quot;&gt;&amp;&#x27;&#x60;&#x3D;"
	if got != want {
		t.Fatalf("Escape mismatch\nwant: %q\n got: %q", want, got)
	}
	if got := value.Escape(value.SafeString("<b>")); got != "<b>" {
		t.Fatalf("safe strings must pass through, got %q", got)
	}
	if got := value.Escape(nil); got != "" {
		t.Fatalf("nil escapes to empty, got %q", got)
	}
}

func TestFrameChild(t *testing.T) {
	root := value.NewFrame(map[string]any{"root": 1})
	child := root.Child()
	child.Set("index", 2)

	if child.Parent() != root {
		t.Fatalf("child must link to its parent")
	}
	if v, ok := child.Get("root"); !ok || v != 1 {
		t.Fatalf("child must copy parent values, got %v %v", v, ok)
	}
	if _, ok := root.Get("index"); ok {
		t.Fatalf("child writes must not leak into the parent")
	}
	if diff := cmp.Diff([]string{"index", "root"}, child.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func ptr[T any](v T) *T { return &v }
