package precompile_test

import (
	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/helpers"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

type eachOnly struct{}

func (eachOnly) Helper(name string) (any, bool) {
	if name == "each" {
		return runtime.HelperFunc(helpers.Each), true
	}
	return nil, false
}

func (eachOnly) Hook(string) (any, bool)                    { return nil, false }
func (eachOnly) Partial(string) (*ast.Program, error)       { return nil, nil }
func (eachOnly) Decorator(string) (runtime.Decorator, bool) { return nil, false }
