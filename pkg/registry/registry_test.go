package registry_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-handlebars/pkg/registry"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()
	reg := registry.New[int]("number")

	if err := reg.Register("one", 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := reg.Register("one", 2)
	if !errors.Is(err, registry.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err.Error() != `registry: already registered: number "one"` {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err := reg.Register("", 3); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}

	got, err := reg.Get("one")
	if err != nil || got != 1 {
		t.Fatalf("expected 1, got %d, %v", got, err)
	}
	if _, err := reg.Get("two"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRegistrySetDeleteList(t *testing.T) {
	t.Parallel()
	reg := registry.New[string]("partial")
	reg.Set("b", "B")
	reg.Set("a", "A")
	reg.Set("b", "BB")

	if diff := cmp.Diff([]string{"a", "b"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"a": "A", "b": "BB"}, reg.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if !reg.Delete("a") || reg.Delete("a") {
		t.Fatalf("expected delete to report presence once")
	}
	if reg.Has("a") || !reg.Has("b") || reg.Len() != 1 {
		t.Fatalf("unexpected contents %v", reg.List())
	}
}

func TestRegistryMustGetPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	registry.New[int]("helper").MustGet("missing")
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()
	reg := registry.New[int]("helper")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.Set("shared", i)
			reg.Lookup("shared")
			reg.List()
		}(i)
	}
	wg.Wait()
	if !reg.Has("shared") {
		t.Fatalf("expected shared entry")
	}
}
