package value_test

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-handlebars/pkg/value"
)

type base struct {
	ID string
}

type Audit struct {
	CreatedBy string
}

type person struct {
	Audit
	FirstName string
	HTMLBody  string
	Alias     string `hbs:"nick"`
	Hidden    string `hbs:"-"`
	secret    string
	base
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"Name":      "name",
		"URL":       "url",
		"HTMLBody":  "htmlBody",
		"FirstName": "firstName",
		"already":   "already",
	}
	for in, want := range cases {
		if got := value.LowerCamel(in); got != want {
			t.Errorf("LowerCamel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFields(t *testing.T) {
	fields := value.Fields(reflect.TypeOf(person{}))
	var names []string
	var promoted []string
	for _, f := range fields {
		if f.Promoted {
			promoted = append(promoted, f.Name)
			continue
		}
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"firstName", "htmlBody", "nick"}, names); diff != "" {
		t.Fatalf("declared fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"createdBy"}, promoted); diff != "" {
		t.Fatalf("promoted fields mismatch (-want +got):\n%s", diff)
	}

	if f, ok := value.FindField(reflect.TypeOf(&person{}), "FirstName"); !ok || f.Name != "firstName" {
		t.Fatalf("expected Go name lookup to resolve, got %+v %v", f, ok)
	}
}

func TestEntries(t *testing.T) {
	got := value.Entries(map[string]int{"b": 2, "a": 1})
	want := []value.Entry{{Key: "a", Value: 1}, {Key: "b", Value: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("map entries mismatch (-want +got):\n%s", diff)
	}

	got = value.Entries(map[int]string{2: "b", 10: "a", 1: "c"})
	want = []value.Entry{{Key: "1", Value: "c"}, {Key: "2", Value: "b"}, {Key: "10", Value: "a"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("integer keyed entries mismatch (-want +got):\n%s", diff)
	}

	got = value.Entries(map[uint8]bool{20: true, 3: false})
	want = []value.Entry{{Key: "3", Value: false}, {Key: "20", Value: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unsigned keyed entries mismatch (-want +got):\n%s", diff)
	}

	got = value.Entries([]string{"x", "y"})
	want = []value.Entry{{Key: 0, Value: "x"}, {Key: 1, Value: "y"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("slice entries mismatch (-want +got):\n%s", diff)
	}

	got = value.Entries(&person{FirstName: "Ada", Alias: "countess"})
	want = []value.Entry{{Key: "firstName", Value: "Ada"}, {Key: "htmlBody", Value: ""}, {Key: "nick", Value: "countess"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("struct entries mismatch (-want +got):\n%s", diff)
	}

	if got := value.Entries(42); got != nil {
		t.Fatalf("scalars have no entries, got %v", got)
	}
}
