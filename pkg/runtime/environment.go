package runtime

import "github.com/goliatone/go-handlebars/pkg/ast"

// Environment supplies the named collaborators a render may reference.
// Lookups must be safe for concurrent use when templates render
// concurrently.
type Environment interface {
	Helper(name string) (any, bool)
	// Hook returns the fallback for helperMissing and blockHelperMissing.
	Hook(name string) (any, bool)
	// Partial returns the program registered under name, or nil when there
	// is none.
	Partial(name string) (*ast.Program, error)
	Decorator(name string) (Decorator, bool)
}

// Names of the fallback hooks.
const (
	HelperMissing      = "helperMissing"
	BlockHelperMissing = "blockHelperMissing"
)

type emptyEnvironment struct{}

func (emptyEnvironment) Helper(string) (any, bool)            { return nil, false }
func (emptyEnvironment) Hook(string) (any, bool)              { return nil, false }
func (emptyEnvironment) Partial(string) (*ast.Program, error) { return nil, nil }
func (emptyEnvironment) Decorator(string) (Decorator, bool)   { return nil, false }
