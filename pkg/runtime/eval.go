package runtime

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// evaluator walks the tree for its session. Every statement and expression
// kind has one evaluation function.
type evaluator struct {
	session *Session
}

// program renders statements in order and joins their results with the
// language's `+`, so unescaped numbers add up before the final conversion
// to text.
func (e *evaluator) program(p *ast.Program) (string, error) {
	if p == nil {
		return "", nil
	}
	pop, err := e.decorate(p)
	if err != nil {
		return "", err
	}
	if pop != nil {
		defer pop()
	}

	var (
		result any
		first  = true
	)
	for _, stmt := range p.Body {
		v, err := e.statement(stmt)
		if err != nil {
			return "", err
		}
		if v == nil {
			v = ""
		}
		if first {
			result, first = v, false
			continue
		}
		result = value.Add(result, v)
	}
	return value.Stringify(result), nil
}

func (e *evaluator) statement(stmt ast.Statement) (any, error) {
	switch node := stmt.(type) {
	case *ast.ContentStatement:
		return node.Value, nil
	case *ast.CommentStatement:
		return "", nil
	case *ast.MustacheStatement:
		return e.mustache(node)
	case *ast.BlockStatement:
		return e.block(node)
	case *ast.PartialStatement:
		return e.partialStatement(node)
	case *ast.PartialBlockStatement:
		return e.partialBlock(node)
	case *ast.DecoratorStatement, *ast.DecoratorBlock:
		return "", nil
	}
	return nil, NewException(fmt.Sprintf("unknown statement %T", stmt), stmt)
}

// expr evaluates an expression. inParam marks positional and hash argument
// positions, where a bare identifier never resolves to a helper.
func (e *evaluator) expr(node ast.Expression, inParam bool) (any, error) {
	switch n := node.(type) {
	case *ast.PathExpression:
		v, _, err := e.path(n, inParam)
		return v, err
	case *ast.SubExpression:
		return e.call(n)
	case *ast.StringLiteral:
		return n.Value, nil
	case *ast.NumberLiteral:
		return n.Number(), nil
	case *ast.BooleanLiteral:
		return n.Value, nil
	case *ast.NullLiteral, *ast.UndefinedLiteral:
		return nil, nil
	}
	return nil, NewException(fmt.Sprintf("unknown expression %T", node), node)
}

func (e *evaluator) params(nodes []ast.Expression) ([]any, error) {
	out := make([]any, 0, len(nodes))
	for _, node := range nodes {
		v, err := e.expr(node, true)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// hash evaluates pairs in argument position; a repeated key keeps the last
// value.
func (e *evaluator) hash(h *ast.Hash) (map[string]any, error) {
	out := map[string]any{}
	if h == nil {
		return out, nil
	}
	for _, pair := range h.Pairs {
		v, err := e.expr(pair.Value, true)
		if err != nil {
			return nil, err
		}
		out[pair.Key] = v
	}
	return out, nil
}

// path resolves a path expression. The boolean distinguishes a resolved
// value (possibly nil) from nothing found.
func (e *evaluator) path(p *ast.PathExpression, inParam bool) (any, bool, error) {
	sc := e.session.scope
	if !p.Data && len(p.Parts) > 0 && (p.Parts[0] == HelperMissing || p.Parts[0] == BlockHelperMissing) {
		return nil, false, Errorf(ErrReservedHook, p, "%s cannot be referenced from a template", p.Parts[0])
	}

	if !p.Data && p.Depth == 0 && len(p.Parts) > 0 && !ast.IsScopedID(p) {
		if idx, ok := sc.BlockParams.Find(p.Parts[0]); ok {
			v, found := sc.BlockParams.Value(idx, p.Parts[1:])
			return v, found, nil
		}
	}

	if len(p.Parts) == 0 {
		v, ok := sc.Context.At(p.Depth)
		return v, ok, nil
	}

	if p.Data {
		v, ok := sc.Data.Lookup(p.Parts, p.Depth, 0)
		return v, ok, nil
	}

	if !inParam && ast.IsSimpleID(p) {
		if h, ok := e.session.helper(p.Parts[0]); ok {
			return h, true, nil
		}
	}

	v, ok := sc.Context.Lookup(p.Parts, p.Depth)
	return v, ok, nil
}

func (e *evaluator) classify(node ast.Node, p *ast.PathExpression) ExprType {
	return Classify(node, p, func(name string) bool {
		_, ok := e.session.scope.BlockParams.Find(name)
		return ok
	})
}

func (e *evaluator) options(name string, node ast.Node, hash map[string]any, program, inverse *ast.Program, block bool) *Options {
	opts := &Options{
		Name:    name,
		Hash:    hash,
		Data:    e.session.scope.Data.Top(),
		Loc:     node.Location(),
		This:    e.session.scope.Context.Top(),
		block:   block,
		fn:      program,
		inverse: inverse,
		eval:    e,
	}
	if program != nil {
		opts.BlockParams = len(program.BlockParams)
	}
	return opts
}

func (e *evaluator) mustache(node *ast.MustacheStatement) (any, error) {
	v, err := e.call(node)
	if err != nil {
		return nil, err
	}
	if node.Escaped && !e.session.compile.NoEscape {
		return value.Escape(v), nil
	}
	return v, nil
}

// call evaluates a mustache or sub-expression call form.
func (e *evaluator) call(node ast.Call) (any, error) {
	p := ast.LiteralToPath(node.Callee())
	if p == nil {
		return nil, NewException("unsupported callee", node)
	}
	pathValue, found, err := e.path(p, false)
	if err != nil {
		return nil, err
	}

	kind := e.classify(node, p)
	if kind != ExprHelper && !value.IsCallable(pathValue) && found {
		return pathValue, nil
	}

	params, err := e.params(node.Args())
	if err != nil {
		return nil, err
	}
	hash, err := e.hash(node.HashArgs())
	if err != nil {
		return nil, err
	}
	opts := e.options(p.Original, node, hash, nil, nil, false)

	callee := pathValue
	if !value.IsCallable(callee) {
		if _, ok := e.session.hook(HelperMissing); !ok && kind != ExprHelper {
			// Nothing found and nothing to fall back to.
			return nil, nil
		}
		if callee, err = e.missing(HelperMissing, p.Original, node); err != nil {
			return nil, err
		}
	}
	return e.invoke(callee, params, opts, node)
}

func (e *evaluator) block(node *ast.BlockStatement) (any, error) {
	p := ast.LiteralToPath(node.Path)
	if p == nil {
		return nil, NewException("unsupported callee", node)
	}
	hash, err := e.hash(node.Hash)
	if err != nil {
		return nil, err
	}
	opts := e.options(p.Original, node, hash, node.Program, node.Inverse, true)

	pathValue, _, err := e.path(p, false)
	if err != nil {
		return nil, err
	}
	kind := e.classify(node, p)

	if kind == ExprHelper {
		params, err := e.params(node.Params)
		if err != nil {
			return nil, err
		}
		callee := pathValue
		if !value.IsCallable(callee) {
			if callee, err = e.missing(HelperMissing, p.Original, node); err != nil {
				return nil, err
			}
		}
		return e.invoke(callee, params, opts, node)
	}

	if !value.IsCallable(pathValue) {
		return e.blockHelperMissing(pathValue, opts, node)
	}

	params, err := e.params(node.Params)
	if err != nil {
		return nil, err
	}
	if kind == ExprAmbiguous {
		result, err := e.invoke(pathValue, params, opts, node)
		if err != nil {
			return nil, err
		}
		if _, isHelper := e.session.helper(p.Parts[0]); isHelper {
			return result, nil
		}
		return e.blockHelperMissing(result, opts, node)
	}

	result, err := e.invoke(pathValue, params, nil, node)
	if err != nil {
		return nil, err
	}
	return e.blockHelperMissing(result, opts, node)
}

func (e *evaluator) blockHelperMissing(condition any, opts *Options, node ast.Node) (any, error) {
	hook, err := e.missing(BlockHelperMissing, opts.Name, node)
	if err != nil {
		return nil, err
	}
	return e.invoke(hook, []any{condition}, opts, node)
}

// missing returns the fallback hook, or an error naming the callee when
// none is configured.
func (e *evaluator) missing(hook, name string, node ast.Node) (any, error) {
	if fn, ok := e.session.hook(hook); ok && value.IsCallable(fn) {
		return fn, nil
	}
	return nil, Errorf(ErrMissingHelper, node, "Missing helper: \"%s\"", name)
}

// invoke calls fn and locates errors that lack a position at node.
func (e *evaluator) invoke(fn any, params []any, opts *Options, node ast.Node) (any, error) {
	v, err := Call(fn, params, opts)
	if err != nil {
		return nil, locate(err, node)
	}
	return v, nil
}

// locate fills in the position of an unlocated Exception in err's chain.
func locate(err error, node ast.Node) error {
	var ex *Exception
	if errors.As(err, &ex) && ex.Line == 0 {
		loc := node.Location()
		ex.Line, ex.Column, ex.Source = loc.Start.Line, loc.Start.Column, loc.Source
	}
	return err
}

// runBlock renders a block body for Options.Fn and Options.Inverse. The
// subject is pushed only when it differs from the current one, so `../`
// keeps pointing at the enclosing subject through blocks that do not
// rebind it. Every push is popped on all exit paths.
func (e *evaluator) runBlock(program *ast.Program, ctx any, opts []BlockOption) (string, error) {
	if program == nil {
		return "", nil
	}
	var args blockArgs
	for _, opt := range opts {
		if opt != nil {
			opt(&args)
		}
	}

	sc := e.session.scope
	if sc.Context.Len() == 0 || !value.Same(sc.Context.Top(), ctx) {
		sc.Context.Push(ctx)
		defer sc.Context.Pop()
	}
	if args.data != nil && args.data != sc.Data.Top() {
		sc.Data.Push(args.data)
		defer sc.Data.Pop()
	}
	if program.BlockParams != nil {
		sc.BlockParams.Push(program.BlockParams, args.blockParams)
		defer sc.BlockParams.Pop()
	}
	return e.program(program)
}

// decorate runs the program's decorators and, when they registered inline
// partials, returns the function that removes them again.
func (e *evaluator) decorate(p *ast.Program) (func(), error) {
	var props *DecoratorProps
	for _, stmt := range p.Body {
		var (
			path    ast.Expression
			args    []ast.Expression
			hashArg *ast.Hash
			body    *ast.Program
		)
		switch node := stmt.(type) {
		case *ast.DecoratorStatement:
			path, args, hashArg = node.Path, node.Params, node.Hash
		case *ast.DecoratorBlock:
			path, args, hashArg, body = node.Path, node.Params, node.Hash, node.Program
		default:
			continue
		}

		name := ast.LiteralToPath(path).Original
		fn, ok := e.session.env.Decorator(name)
		if !ok || fn == nil {
			return nil, NewException(fmt.Sprintf("Missing decorator: %q", name), stmt)
		}
		params, err := e.params(args)
		if err != nil {
			return nil, err
		}
		hash, err := e.hash(hashArg)
		if err != nil {
			return nil, err
		}
		if props == nil {
			props = &DecoratorProps{}
		}
		err = fn(props, &DecoratorOptions{
			Name:    name,
			Args:    params,
			Hash:    hash,
			Program: body,
			Data:    e.session.scope.Data.Top(),
			Loc:     stmt.Location(),
		})
		if err != nil {
			return nil, locate(err, stmt)
		}
	}

	if props == nil || len(props.partials) == 0 {
		return nil, nil
	}
	s := e.session
	s.inline = append(s.inline, props.partials)
	return func() { s.inline = s.inline[:len(s.inline)-1] }, nil
}
