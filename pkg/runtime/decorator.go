package runtime

import (
	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Decorator runs when the program containing it is entered, before the
// program's body renders.
type Decorator func(props *DecoratorProps, opts *DecoratorOptions) error

// DecoratorProps collects what decorators contribute to the enclosing
// program.
type DecoratorProps struct {
	partials map[string]*ast.Program
}

// RegisterPartial makes program available as a partial to the enclosing
// program and everything it renders.
func (p *DecoratorProps) RegisterPartial(name string, program *ast.Program) {
	if p.partials == nil {
		p.partials = make(map[string]*ast.Program)
	}
	p.partials[name] = program
}

// Partial returns a partial registered by a decorator.
func (p *DecoratorProps) Partial(name string) (*ast.Program, bool) {
	if p == nil {
		return nil, false
	}
	program, ok := p.partials[name]
	return program, ok
}

// DecoratorOptions describes one decorator invocation.
type DecoratorOptions struct {
	Name string
	Args []any
	Hash map[string]any
	// Program is the decorator block body, nil for `{{* name}}`.
	Program *ast.Program
	Data    *value.Frame
	Loc     ast.Loc
}
