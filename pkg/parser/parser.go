// Package parser turns template source into the syntax tree evaluated by
// the runtime.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-handlebars/pkg/ast"
)

// Parse parses template source.
func Parse(source string) (*ast.Program, error) {
	return ParseNamed("", source)
}

// ParseNamed parses source and records name as the source of every node
// location.
func ParseNamed(name, source string) (*ast.Program, error) {
	sc := newScanner(name, source)
	segs, err := sc.scan()
	if err != nil {
		return nil, err
	}

	p := &parser{sc: sc, segs: segs}
	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.segs) {
		seg := p.segs[p.pos]
		return nil, sc.errorAt(seg.start, "unexpected "+describe(seg))
	}
	program.Loc = sc.loc(0, len(source))
	return program, nil
}

type parser struct {
	sc   *scanner
	segs []segment
	pos  int
}

func describe(seg segment) string {
	switch seg.kind {
	case tagElse:
		return "{{else}}"
	case tagClose:
		return "close tag {{/" + strings.TrimSpace(seg.text) + "}}"
	}
	return "tag"
}

func (p *parser) parseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	first, last := -1, -1
	for p.pos < len(p.segs) {
		seg := p.segs[p.pos]
		if !seg.content && (seg.kind == tagElse || seg.kind == tagClose) {
			break
		}
		p.pos++
		stmt, err := p.parseStatement(seg)
		if err != nil {
			return nil, err
		}
		if first < 0 {
			first = seg.start
		}
		last = p.segs[p.pos-1].end
		program.Body = append(program.Body, stmt)
	}
	if first >= 0 {
		program.Loc = p.sc.loc(first, last)
	}
	return program, nil
}

func (p *parser) parseStatement(seg segment) (ast.Statement, error) {
	loc := p.sc.loc(seg.start, seg.end)
	if seg.content {
		return &ast.ContentStatement{Value: seg.text, Original: seg.text, Loc: loc}, nil
	}

	switch seg.kind {
	case tagComment:
		return &ast.CommentStatement{Value: seg.text, Loc: loc}, nil
	case tagMustache, tagUnescaped:
		call, err := p.parseTag(seg, false, false)
		if err != nil {
			return nil, err
		}
		return &ast.MustacheStatement{
			Path:    call.callee,
			Params:  call.params,
			Hash:    call.hash,
			Escaped: seg.kind == tagMustache,
			Loc:     loc,
		}, nil
	case tagBlockOpen, tagInverseOpen:
		return p.parseBlock(seg)
	case tagRaw:
		call, err := p.parseTag(segment{text: seg.text, start: seg.start, end: seg.end}, false, false)
		if err != nil {
			return nil, err
		}
		body := &ast.Program{Loc: loc}
		if seg.raw != "" {
			body.Body = []ast.Statement{&ast.ContentStatement{Value: seg.raw, Original: seg.raw, Loc: loc}}
		}
		return &ast.BlockStatement{Path: call.callee, Params: call.params, Hash: call.hash, Program: body, Loc: loc}, nil
	case tagPartial:
		call, err := p.parsePartialTag(seg)
		if err != nil {
			return nil, err
		}
		return &ast.PartialStatement{Name: call.callee, Params: call.params, Hash: call.hash, Loc: loc}, nil
	case tagPartialBlockOpen:
		call, err := p.parsePartialTag(seg)
		if err != nil {
			return nil, err
		}
		program, err := p.parseClosedBody(seg, original(call.callee))
		if err != nil {
			return nil, err
		}
		return &ast.PartialBlockStatement{Name: call.callee, Params: call.params, Hash: call.hash, Program: program, Loc: p.sc.loc(seg.start, p.segs[p.pos-1].end)}, nil
	case tagDecorator:
		call, err := p.parseTag(seg, false, false)
		if err != nil {
			return nil, err
		}
		return &ast.DecoratorStatement{Path: call.callee, Params: call.params, Hash: call.hash, Loc: loc}, nil
	case tagDecoratorBlockOpen:
		call, err := p.parseTag(seg, false, false)
		if err != nil {
			return nil, err
		}
		program, err := p.parseClosedBody(seg, original(call.callee))
		if err != nil {
			return nil, err
		}
		return &ast.DecoratorBlock{Path: call.callee, Params: call.params, Hash: call.hash, Program: program, Loc: p.sc.loc(seg.start, p.segs[p.pos-1].end)}, nil
	}
	return nil, p.sc.errorAt(seg.start, "unexpected "+describe(seg))
}

func (p *parser) parsePartialTag(seg segment) (tagCall, error) {
	call, err := p.parseTag(seg, true, false)
	if err != nil {
		return call, err
	}
	if len(call.params) > 1 {
		return call, p.sc.errorAt(seg.start, fmt.Sprintf("Unsupported number of partial arguments: %d", len(call.params)))
	}
	return call, nil
}

// parseClosedBody parses a body that allows no {{else}} and must close
// with name.
func (p *parser) parseClosedBody(open segment, name string) (*ast.Program, error) {
	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	closing, err := p.expectClose(open, name)
	if err != nil {
		return nil, err
	}
	if closing.kind != tagClose {
		return nil, p.sc.errorAt(closing.start, "unexpected {{else}} in "+name)
	}
	return program, nil
}

func (p *parser) parseBlock(seg segment) (ast.Statement, error) {
	call, err := p.parseTag(seg, false, true)
	if err != nil {
		return nil, err
	}
	program, inverse, err := p.parseBlockBody(seg, original(call.callee), call.blockParams)
	if err != nil {
		return nil, err
	}
	if seg.kind == tagInverseOpen {
		program, inverse = inverse, program
	}
	return &ast.BlockStatement{
		Path:    call.callee,
		Params:  call.params,
		Hash:    call.hash,
		Program: program,
		Inverse: inverse,
		Loc:     p.sc.loc(seg.start, p.segs[p.pos-1].end),
	}, nil
}

// parseBlockBody reads the primary program, an optional {{else}} section
// (possibly chained as {{else if …}}), and the closing tag.
func (p *parser) parseBlockBody(open segment, name string, blockParams []string) (*ast.Program, *ast.Program, error) {
	program, err := p.parseProgram()
	if err != nil {
		return nil, nil, err
	}
	program.BlockParams = blockParams

	closing, err := p.expectClose(open, name)
	if err != nil {
		return nil, nil, err
	}
	if closing.kind == tagClose {
		return program, nil, nil
	}

	if strings.TrimSpace(closing.text) != "" {
		chain, err := p.parseTag(closing, false, true)
		if err != nil {
			return nil, nil, err
		}
		chainedProgram, chainedInverse, err := p.parseBlockBody(open, name, chain.blockParams)
		if err != nil {
			return nil, nil, err
		}
		chained := &ast.BlockStatement{
			Path:    chain.callee,
			Params:  chain.params,
			Hash:    chain.hash,
			Program: chainedProgram,
			Inverse: chainedInverse,
			Loc:     p.sc.loc(closing.start, p.segs[p.pos-1].end),
		}
		return program, &ast.Program{Body: []ast.Statement{chained}, Loc: chained.Loc}, nil
	}

	inverse, err := p.parseProgram()
	if err != nil {
		return nil, nil, err
	}
	final, err := p.expectClose(open, name)
	if err != nil {
		return nil, nil, err
	}
	if final.kind != tagClose {
		return nil, nil, p.sc.errorAt(final.start, "unexpected second {{else}} in "+name)
	}
	return program, inverse, nil
}

// expectClose consumes the {{else}} or {{/name}} that ended a program.
func (p *parser) expectClose(open segment, name string) (segment, error) {
	if p.pos >= len(p.segs) {
		return segment{}, p.sc.errorAt(open.start, name+" is never closed")
	}
	seg := p.segs[p.pos]
	p.pos++
	if seg.kind == tagClose {
		if closeName := strings.TrimSpace(seg.text); closeName != name {
			return seg, p.sc.errorAt(seg.start, name+" doesn't match "+closeName)
		}
	}
	return seg, nil
}

type tagCall struct {
	callee      ast.Expression
	params      []ast.Expression
	hash        *ast.Hash
	blockParams []string
}

func (p *parser) parseTag(seg segment, sexprCallee, blockParams bool) (tagCall, error) {
	tokens, err := tokenize(seg.text, seg.start)
	if err != nil {
		var lexErr *lexError
		if errors.As(err, &lexErr) {
			return tagCall{}, p.sc.errorAt(lexErr.offset, lexErr.message)
		}
		return tagCall{}, err
	}
	e := &exprParser{sc: p.sc, tokens: tokens}

	var call tagCall
	if sexprCallee && e.peek().kind == tokenOpenParen {
		call.callee, err = e.parseSubExpression()
	} else {
		call.callee, err = e.parseHelperName()
	}
	if err != nil {
		return call, err
	}
	if call.params, call.hash, err = e.parseArguments(); err != nil {
		return call, err
	}
	if e.peek().kind == tokenOpenBlockParams {
		if !blockParams {
			return call, e.errorf("block parameters are only allowed on blocks")
		}
		if call.blockParams, err = e.parseBlockParams(); err != nil {
			return call, err
		}
	}
	if t := e.peek(); t.kind != tokenEOF {
		return call, e.errorf("unexpected %s", t.kind)
	}
	return call, nil
}

type exprParser struct {
	sc     *scanner
	tokens []token
	i      int
}

func (e *exprParser) peek() token { return e.tokens[e.i] }

func (e *exprParser) peekAt(n int) token {
	if e.i+n >= len(e.tokens) {
		return e.tokens[len(e.tokens)-1]
	}
	return e.tokens[e.i+n]
}

func (e *exprParser) next() token {
	t := e.tokens[e.i]
	if t.kind != tokenEOF {
		e.i++
	}
	return t
}

func (e *exprParser) errorf(format string, args ...any) error {
	return e.sc.errorAt(e.peek().offset, fmt.Sprintf(format, args...))
}

func (e *exprParser) loc(t token) ast.Loc {
	return e.sc.loc(t.offset, t.offset+len(t.original))
}

func (e *exprParser) parseHelperName() (ast.Expression, error) {
	switch e.peek().kind {
	case tokenID, tokenData:
		return e.parsePath()
	case tokenString, tokenNumber, tokenBool, tokenNull, tokenUndefined:
		return e.parseLiteral()
	}
	return nil, e.errorf("expected helper name, got %s", e.peek().kind)
}

func (e *exprParser) parseParam() (ast.Expression, error) {
	if e.peek().kind == tokenOpenParen {
		return e.parseSubExpression()
	}
	return e.parseHelperName()
}

func (e *exprParser) parseArguments() ([]ast.Expression, *ast.Hash, error) {
	var params []ast.Expression
	for {
		t := e.peek()
		if t.kind == tokenEOF || t.kind == tokenCloseParen || t.kind == tokenOpenBlockParams {
			return params, nil, nil
		}
		if t.kind == tokenID && e.peekAt(1).kind == tokenEquals {
			break
		}
		param, err := e.parseParam()
		if err != nil {
			return nil, nil, err
		}
		params = append(params, param)
	}

	hash := &ast.Hash{Loc: e.loc(e.peek())}
	for e.peek().kind == tokenID && e.peekAt(1).kind == tokenEquals {
		key := e.next()
		e.next()
		v, err := e.parseParam()
		if err != nil {
			return nil, nil, err
		}
		hash.Pairs = append(hash.Pairs, &ast.HashPair{Key: key.raw, Value: v, Loc: e.loc(key)})
	}
	if t := e.peek(); t.kind != tokenEOF && t.kind != tokenCloseParen && t.kind != tokenOpenBlockParams {
		return nil, nil, e.errorf("positional arguments must come before hash arguments")
	}
	return params, hash, nil
}

func (e *exprParser) parseSubExpression() (ast.Expression, error) {
	open := e.next()
	callee, err := e.parseHelperName()
	if err != nil {
		return nil, err
	}
	params, hash, err := e.parseArguments()
	if err != nil {
		return nil, err
	}
	closing := e.peek()
	if closing.kind != tokenCloseParen {
		return nil, e.errorf("expected ')', got %s", closing.kind)
	}
	e.next()
	return &ast.SubExpression{
		Path:   callee,
		Params: params,
		Hash:   hash,
		Loc:    e.sc.loc(open.offset, closing.offset+1),
	}, nil
}

func (e *exprParser) parseLiteral() (ast.Expression, error) {
	t := e.next()
	loc := e.loc(t)
	switch t.kind {
	case tokenString:
		return &ast.StringLiteral{Value: t.raw, Original: t.raw, Loc: loc}, nil
	case tokenNumber:
		n, err := strconv.ParseFloat(t.raw, 64)
		if err != nil {
			return nil, e.sc.errorAt(t.offset, "invalid number "+t.raw)
		}
		return &ast.NumberLiteral{Value: n, Original: t.raw, Loc: loc}, nil
	case tokenBool:
		return &ast.BooleanLiteral{Value: t.raw == "true", Original: t.raw, Loc: loc}, nil
	case tokenNull:
		return &ast.NullLiteral{Loc: loc}, nil
	}
	return &ast.UndefinedLiteral{Loc: loc}, nil
}

func (e *exprParser) parsePath() (ast.Expression, error) {
	start := e.peek()
	data := false
	var original strings.Builder
	if start.kind == tokenData {
		data = true
		original.WriteString("@")
		e.next()
	}

	first := e.peek()
	if first.kind != tokenID {
		return nil, e.errorf("expected identifier, got %s", first.kind)
	}
	e.next()
	segments := []token{first}
	original.WriteString(first.original)
	end := first.offset + len(first.original)
	for e.peek().kind == tokenSep && e.peekAt(1).kind == tokenID {
		sep := e.next()
		id := e.next()
		original.WriteString(sep.raw)
		original.WriteString(id.original)
		segments = append(segments, id)
		end = id.offset + len(id.original)
	}

	path := &ast.PathExpression{Data: data, Original: original.String(), Loc: e.sc.loc(start.offset, end)}
	for _, seg := range segments {
		if !seg.literal && (seg.raw == ".." || seg.raw == "." || seg.raw == "this") {
			if len(path.Parts) > 0 {
				return nil, e.sc.errorAt(seg.offset, "Invalid path: "+path.Original)
			}
			if seg.raw == ".." {
				path.Depth++
			}
			continue
		}
		path.Parts = append(path.Parts, seg.raw)
	}
	return path, nil
}

func (e *exprParser) parseBlockParams() ([]string, error) {
	e.next()
	var names []string
	for e.peek().kind == tokenID {
		names = append(names, e.next().raw)
	}
	if e.peek().kind != tokenCloseBlockParams {
		return nil, e.errorf("expected '|' to close block parameters")
	}
	e.next()
	return names, nil
}

func original(expr ast.Expression) string {
	switch node := expr.(type) {
	case *ast.PathExpression:
		return node.Original
	case *ast.StringLiteral:
		return node.Original
	case *ast.NumberLiteral:
		return node.Original
	case *ast.BooleanLiteral:
		return node.Original
	case *ast.NullLiteral:
		return "null"
	case *ast.UndefinedLiteral:
		return "undefined"
	}
	return ""
}
