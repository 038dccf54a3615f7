// Package handlebars renders Handlebars templates. A Handlebars instance
// owns the helpers, partials and decorators templates may reference;
// templates compiled from it prepare lazily and render concurrently.
package handlebars

import (
	"errors"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/decorators"
	"github.com/goliatone/go-handlebars/pkg/helpers"
	"github.com/goliatone/go-handlebars/pkg/registry"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

var (
	// ErrInvalidInput marks Compile and RegisterPartial inputs that are
	// neither template source nor a parsed tree.
	ErrInvalidInput = errors.New("handlebars: invalid input")
	// ErrLegacyOption marks compile options that are no longer supported.
	ErrLegacyOption = errors.New("handlebars: unsupported legacy option")
)

// Handlebars is an isolated set of helpers, hooks, partials and decorators.
type Handlebars struct {
	helpers    *registry.Registry[any]
	hooks      *registry.Registry[any]
	partials   *registry.Registry[*Template]
	decorators *registry.Registry[runtime.Decorator]
}

// Option configures a Handlebars instance.
type Option func(*Handlebars) error

// WithHelpers registers helpers on the new instance.
func WithHelpers(fns map[string]any) Option {
	return func(h *Handlebars) error {
		return h.RegisterHelpers(fns)
	}
}

// WithPartials registers partial sources on the new instance.
func WithPartials(partials map[string]string) Option {
	return func(h *Handlebars) error {
		for name, source := range partials {
			if err := h.RegisterPartial(name, source); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithDecorators registers decorators on the new instance.
func WithDecorators(fns map[string]runtime.Decorator) Option {
	return func(h *Handlebars) error {
		for name, fn := range fns {
			if err := h.RegisterDecorator(name, fn); err != nil {
				return err
			}
		}
		return nil
	}
}

// New builds an instance with the default helpers and decorators. The
// helperMissing and blockHelperMissing defaults are installed as hooks, so
// a helper registered under either name takes precedence.
func New(options ...Option) (*Handlebars, error) {
	h := &Handlebars{
		helpers:    registry.New[any]("helper"),
		hooks:      registry.New[any]("hook"),
		partials:   registry.New[*Template]("partial"),
		decorators: registry.New[runtime.Decorator]("decorator"),
	}
	for name, fn := range helpers.Defaults() {
		h.helpers.Set(name, fn)
	}
	h.moveHelperToHooks(runtime.HelperMissing)
	h.moveHelperToHooks(runtime.BlockHelperMissing)
	for name, fn := range decorators.Defaults() {
		h.decorators.Set(name, fn)
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// MustNew is New that panics on error.
func MustNew(options ...Option) *Handlebars {
	h, err := New(options...)
	if err != nil {
		panic(err)
	}
	return h
}

// Create returns a fresh instance with only the defaults registered.
func (h *Handlebars) Create() *Handlebars {
	return MustNew()
}

func (h *Handlebars) moveHelperToHooks(name string) {
	if fn, ok := h.helpers.Lookup(name); ok {
		h.hooks.Set(name, fn)
		h.helpers.Delete(name)
	}
}

// Helper implements runtime.Environment.
func (h *Handlebars) Helper(name string) (any, bool) {
	return h.helpers.Lookup(name)
}

// Hook implements runtime.Environment.
func (h *Handlebars) Hook(name string) (any, bool) {
	return h.hooks.Lookup(name)
}

// Partial implements runtime.Environment. Partials registered as source
// are parsed on first use.
func (h *Handlebars) Partial(name string) (*ast.Program, error) {
	tmpl, ok := h.partials.Lookup(name)
	if !ok || tmpl == nil {
		return nil, nil
	}
	return tmpl.Program()
}

// Decorator implements runtime.Environment.
func (h *Handlebars) Decorator(name string) (runtime.Decorator, bool) {
	return h.decorators.Lookup(name)
}

// Log writes args through the log helper's sink at level, which is a level
// name or number.
func (h *Handlebars) Log(level any, args ...any) {
	l, ok := helpers.ParseLevel(level)
	if !ok {
		l = helpers.LevelInfo
	}
	helpers.Write(l, args...)
}
