package runtime

import (
	"github.com/goliatone/go-handlebars/internal/scope"
	"github.com/goliatone/go-handlebars/pkg/access"
	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// maxPartialDepth bounds partial recursion.
const maxPartialDepth = 256

// Session renders one tree against one root context. Sessions are cheap;
// create one per render and never share one between goroutines.
type Session struct {
	env     Environment
	compile CompileOptions
	runtime RuntimeOptions

	scope  *scope.Scope
	eval   *evaluator
	inline []map[string]*ast.Program
	depth  int
}

// NewSession prepares a session. A nil env resolves no helpers, partials or
// decorators.
func NewSession(env Environment, compile CompileOptions, runtime RuntimeOptions) *Session {
	if env == nil {
		env = emptyEnvironment{}
	}
	s := &Session{env: env, compile: compile, runtime: runtime}
	s.eval = &evaluator{session: s}
	return s
}

// Render evaluates a tree with the given options.
func Render(program *ast.Program, env Environment, ctx any, compile CompileOptions, runtime RuntimeOptions) (string, error) {
	return NewSession(env, compile, runtime).Render(program, ctx)
}

// Render seeds fresh scope stacks from ctx and the runtime options and
// evaluates program. On error the partial output is discarded.
func (s *Session) Render(program *ast.Program, ctx any) (string, error) {
	s.scope = scope.New(access.NewPolicy(s.runtime.Config))
	s.inline = nil
	s.depth = 0

	s.scope.Context.Push(ctx)
	defer s.scope.Context.Pop()

	if s.compile.DataEnabled() {
		root := value.NewFrame(map[string]any{"root": ctx})
		for key, v := range s.runtime.Data {
			root.Set(key, v)
		}
		s.scope.Data.Push(root)
		defer s.scope.Data.Pop()
	}

	if s.runtime.BlockParams != nil && program != nil {
		s.scope.BlockParams.Push(program.BlockParams, s.runtime.BlockParams)
		defer s.scope.BlockParams.Pop()
	}

	out, err := s.eval.program(program)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *Session) helper(name string) (any, bool) {
	return s.env.Helper(name)
}

// hook prefers a helper registered under a hook name over the hook itself.
func (s *Session) hook(name string) (any, bool) {
	if h, ok := s.env.Helper(name); ok {
		return h, true
	}
	return s.env.Hook(name)
}

func (s *Session) partial(name string) (*ast.Program, error) {
	for i := len(s.inline) - 1; i >= 0; i-- {
		if program, ok := s.inline[i][name]; ok {
			return program, nil
		}
	}
	return s.env.Partial(name)
}

// Depths reports how many entries remain on the context, data and block
// parameter stacks. Outside of Render all three are zero.
func (s *Session) Depths() (context, data, blockParams int) {
	if s.scope == nil {
		return 0, 0, 0
	}
	return s.scope.Depths()
}
