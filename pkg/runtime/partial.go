package runtime

import (
	"fmt"

	"github.com/goliatone/go-handlebars/internal/scope"
	"github.com/goliatone/go-handlebars/pkg/access"
	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// partialBlockKey is the data entry holding the body of the enclosing
// partial block, rendered by `{{> @partial-block}}`.
const partialBlockKey = "partial-block"

// partialBlockBody is a partial block's body together with the data frame
// active where the block was written. The body renders against that frame,
// so `@partial-block` inside it names the enclosing block, not itself.
type partialBlockBody struct {
	program *ast.Program
	frame   *value.Frame
}

func (e *evaluator) partialStatement(node *ast.PartialStatement) (any, error) {
	name, program, frame, err := e.resolvePartial(node.Name)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, Errorf(ErrPartialNotFound, node, "The partial %s could not be found", name)
	}
	ctx, err := e.partialContext(node.Params, node.Hash)
	if err != nil {
		return nil, err
	}
	if frame == nil {
		frame = e.session.scope.Data.Top()
	}
	return e.renderPartial(program, ctx, frame, node)
}

func (e *evaluator) partialBlock(node *ast.PartialBlockStatement) (any, error) {
	_, program, _, err := e.resolvePartial(node.Name)
	if err != nil {
		return nil, err
	}
	ctx, err := e.partialContext(node.Params, node.Hash)
	if err != nil {
		return nil, err
	}

	site := e.session.scope.Data.Top()
	if program == nil {
		return e.renderPartial(node.Program, ctx, site, node)
	}
	frame := site
	if e.session.compile.DataEnabled() {
		frame = site.Child()
		frame.Set(partialBlockKey, &partialBlockBody{program: node.Program, frame: site})
	}
	return e.renderPartial(program, ctx, frame, node)
}

// resolvePartial names the partial and finds its program. Names come from
// a path's source text, a literal, an evaluated sub-expression, or the
// `@partial-block` data entry. The frame is non-nil only for
// `@partial-block`, which renders against the frame of its call site.
func (e *evaluator) resolvePartial(expr ast.Expression) (string, *ast.Program, *value.Frame, error) {
	switch n := expr.(type) {
	case *ast.SubExpression:
		v, err := e.call(n)
		if err != nil {
			return "", nil, nil, err
		}
		name := value.Stringify(v)
		program, err := e.session.partial(name)
		return name, program, nil, err
	case *ast.PathExpression:
		if n.Data && len(n.Parts) == 1 && n.Parts[0] == partialBlockKey {
			v, _ := e.session.scope.Data.Lookup(n.Parts, n.Depth, 0)
			body, ok := v.(*partialBlockBody)
			if !ok || body.program == nil {
				return n.Original, nil, nil, nil
			}
			return n.Original, body.program, body.frame, nil
		}
	}
	path := ast.LiteralToPath(expr)
	if path == nil {
		return "", nil, nil, NewException("unsupported partial name", expr)
	}
	program, err := e.session.partial(path.Original)
	return path.Original, program, nil, err
}

// partialContext is the single context argument, or the current subject,
// with hash arguments merged over a copy of its own members.
func (e *evaluator) partialContext(params []ast.Expression, hashNode *ast.Hash) (any, error) {
	ctx := e.session.scope.Context.Top()
	if len(params) > 1 {
		return nil, NewException(fmt.Sprintf("Unsupported number of partial arguments: %d", len(params)), params[1])
	}
	if len(params) == 1 {
		v, err := e.expr(params[0], true)
		if err != nil {
			return nil, err
		}
		ctx = v
	}
	if hashNode == nil || len(hashNode.Pairs) == 0 {
		return ctx, nil
	}
	hash, err := e.hash(hashNode)
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	if ctx != nil {
		merged = access.OwnProperties(ctx)
	}
	for key, v := range hash {
		merged[key] = v
	}
	return merged, nil
}

// renderPartial evaluates program with fresh scope stacks: ctx is the only
// subject, the caller's data frame is carried over, and the caller's block
// parameters are out of reach. Inline partials stay visible.
func (e *evaluator) renderPartial(program *ast.Program, ctx any, frame *value.Frame, node ast.Node) (string, error) {
	s := e.session
	if s.depth >= maxPartialDepth {
		return "", NewException("partial recursion is too deep", node)
	}

	saved := s.scope
	nested := scope.New(saved.Policy)
	nested.Context.Push(ctx)
	if frame != nil {
		nested.Data.Push(frame)
	}
	s.scope = nested
	s.depth++
	defer func() {
		s.scope = saved
		s.depth--
	}()

	return e.program(program)
}
