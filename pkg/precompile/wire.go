package precompile

import (
	"fmt"

	"github.com/goliatone/go-handlebars/pkg/ast"
)

type wireSpec struct {
	Version int          `cbor:"v"`
	Source  string       `cbor:"src,omitempty"`
	Options wireOptions  `cbor:"opts"`
	Program *wireProgram `cbor:"ast"`
}

type wireOptions struct {
	NoEscape     bool  `cbor:"noEscape,omitempty"`
	Data         *bool `cbor:"data,omitempty"`
	TrackIDs     bool  `cbor:"trackIds,omitempty"`
	StringParams bool  `cbor:"stringParams,omitempty"`
}

// wireLoc is start line, start column, end line, end column.
type wireLoc [4]int

type wireProgram struct {
	Body        []*wireNode `cbor:"body"`
	BlockParams []string    `cbor:"params"`
	Loc         wireLoc     `cbor:"loc"`
}

// wireNode is one node of any kind; Kind selects which fields apply.
type wireNode struct {
	Kind     string       `cbor:"k"`
	Value    string       `cbor:"v,omitempty"`
	Original string       `cbor:"o,omitempty"`
	Number   float64      `cbor:"n,omitempty"`
	Bool     bool         `cbor:"b,omitempty"`
	Escaped  bool         `cbor:"e,omitempty"`
	Data     bool         `cbor:"d,omitempty"`
	Depth    int          `cbor:"depth,omitempty"`
	Parts    []string     `cbor:"parts,omitempty"`
	Path     *wireNode    `cbor:"path,omitempty"`
	Params   []*wireNode  `cbor:"args,omitempty"`
	Hash     *wireHash    `cbor:"hash,omitempty"`
	Program  *wireProgram `cbor:"fn,omitempty"`
	Inverse  *wireProgram `cbor:"inverse,omitempty"`
	Indent   string       `cbor:"indent,omitempty"`
	Loc      wireLoc      `cbor:"loc"`
}

type wireHash struct {
	Pairs []wirePair `cbor:"pairs"`
	Loc   wireLoc    `cbor:"loc"`
}

type wirePair struct {
	Key   string    `cbor:"k"`
	Value *wireNode `cbor:"v"`
	Loc   wireLoc   `cbor:"loc"`
}

const (
	kindContent        = "content"
	kindComment        = "comment"
	kindMustache       = "mustache"
	kindBlock          = "block"
	kindPartial        = "partial"
	kindPartialBlock   = "partialBlock"
	kindDecorator      = "decorator"
	kindDecoratorBlock = "decoratorBlock"
	kindSubExpression  = "sexpr"
	kindPath           = "path"
	kindString         = "string"
	kindNumber         = "number"
	kindBoolean        = "boolean"
	kindNull           = "null"
	kindUndefined      = "undefined"
)

func encodeLoc(l ast.Loc) wireLoc {
	return wireLoc{l.Start.Line, l.Start.Column, l.End.Line, l.End.Column}
}

func encodeProgram(p *ast.Program) *wireProgram {
	if p == nil {
		return nil
	}
	w := &wireProgram{BlockParams: p.BlockParams, Loc: encodeLoc(p.Loc)}
	w.Body = make([]*wireNode, len(p.Body))
	for i, stmt := range p.Body {
		w.Body[i] = encodeNode(stmt)
	}
	return w
}

func encodeHash(h *ast.Hash) *wireHash {
	if h == nil {
		return nil
	}
	w := &wireHash{Pairs: make([]wirePair, len(h.Pairs)), Loc: encodeLoc(h.Loc)}
	for i, pair := range h.Pairs {
		w.Pairs[i] = wirePair{Key: pair.Key, Value: encodeNode(pair.Value), Loc: encodeLoc(pair.Loc)}
	}
	return w
}

func encodeNodes(nodes []ast.Expression) []*wireNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*wireNode, len(nodes))
	for i, n := range nodes {
		out[i] = encodeNode(n)
	}
	return out
}

func encodeNode(n ast.Node) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{Loc: encodeLoc(n.Location())}
	switch node := n.(type) {
	case *ast.ContentStatement:
		w.Kind, w.Value, w.Original = kindContent, node.Value, node.Original
	case *ast.CommentStatement:
		w.Kind, w.Value = kindComment, node.Value
	case *ast.MustacheStatement:
		w.Kind, w.Escaped = kindMustache, node.Escaped
		w.Path, w.Params, w.Hash = encodeNode(node.Path), encodeNodes(node.Params), encodeHash(node.Hash)
	case *ast.BlockStatement:
		w.Kind = kindBlock
		w.Path, w.Params, w.Hash = encodeNode(node.Path), encodeNodes(node.Params), encodeHash(node.Hash)
		w.Program, w.Inverse = encodeProgram(node.Program), encodeProgram(node.Inverse)
	case *ast.PartialStatement:
		w.Kind, w.Indent = kindPartial, node.Indent
		w.Path, w.Params, w.Hash = encodeNode(node.Name), encodeNodes(node.Params), encodeHash(node.Hash)
	case *ast.PartialBlockStatement:
		w.Kind = kindPartialBlock
		w.Path, w.Params, w.Hash = encodeNode(node.Name), encodeNodes(node.Params), encodeHash(node.Hash)
		w.Program = encodeProgram(node.Program)
	case *ast.DecoratorStatement:
		w.Kind = kindDecorator
		w.Path, w.Params, w.Hash = encodeNode(node.Path), encodeNodes(node.Params), encodeHash(node.Hash)
	case *ast.DecoratorBlock:
		w.Kind = kindDecoratorBlock
		w.Path, w.Params, w.Hash = encodeNode(node.Path), encodeNodes(node.Params), encodeHash(node.Hash)
		w.Program = encodeProgram(node.Program)
	case *ast.SubExpression:
		w.Kind = kindSubExpression
		w.Path, w.Params, w.Hash = encodeNode(node.Path), encodeNodes(node.Params), encodeHash(node.Hash)
	case *ast.PathExpression:
		w.Kind, w.Data, w.Depth, w.Parts, w.Original = kindPath, node.Data, node.Depth, node.Parts, node.Original
	case *ast.StringLiteral:
		w.Kind, w.Value, w.Original = kindString, node.Value, node.Original
	case *ast.NumberLiteral:
		w.Kind, w.Number, w.Original = kindNumber, node.Value, node.Original
	case *ast.BooleanLiteral:
		w.Kind, w.Bool, w.Original = kindBoolean, node.Value, node.Original
	case *ast.NullLiteral:
		w.Kind = kindNull
	case *ast.UndefinedLiteral:
		w.Kind = kindUndefined
	}
	return w
}

type decoder struct {
	source string
}

func (d decoder) loc(w wireLoc) ast.Loc {
	return ast.Loc{
		Source: d.source,
		Start:  ast.Position{Line: w[0], Column: w[1]},
		End:    ast.Position{Line: w[2], Column: w[3]},
	}
}

func (d decoder) program(w *wireProgram) (*ast.Program, error) {
	if w == nil {
		return nil, nil
	}
	p := &ast.Program{BlockParams: w.BlockParams, Loc: d.loc(w.Loc)}
	if len(w.Body) > 0 {
		p.Body = make([]ast.Statement, len(w.Body))
	}
	for i, item := range w.Body {
		stmt, err := d.statement(item)
		if err != nil {
			return nil, err
		}
		p.Body[i] = stmt
	}
	return p, nil
}

func (d decoder) hash(w *wireHash) (*ast.Hash, error) {
	if w == nil {
		return nil, nil
	}
	h := &ast.Hash{Pairs: make([]*ast.HashPair, len(w.Pairs)), Loc: d.loc(w.Loc)}
	for i, pair := range w.Pairs {
		v, err := d.expression(pair.Value)
		if err != nil {
			return nil, err
		}
		h.Pairs[i] = &ast.HashPair{Key: pair.Key, Value: v, Loc: d.loc(pair.Loc)}
	}
	return h, nil
}

func (d decoder) expressions(nodes []*wireNode) ([]ast.Expression, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]ast.Expression, len(nodes))
	for i, n := range nodes {
		expr, err := d.expression(n)
		if err != nil {
			return nil, err
		}
		out[i] = expr
	}
	return out, nil
}

// call decodes the callee, arguments and hash shared by call-shaped nodes.
func (d decoder) call(w *wireNode) (ast.Expression, []ast.Expression, *ast.Hash, error) {
	path, err := d.expression(w.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	if path == nil {
		return nil, nil, nil, fmt.Errorf("precompile: %s node has no callee", w.Kind)
	}
	params, err := d.expressions(w.Params)
	if err != nil {
		return nil, nil, nil, err
	}
	hash, err := d.hash(w.Hash)
	if err != nil {
		return nil, nil, nil, err
	}
	return path, params, hash, nil
}

func (d decoder) statement(w *wireNode) (ast.Statement, error) {
	if w == nil {
		return nil, fmt.Errorf("precompile: empty statement")
	}
	loc := d.loc(w.Loc)
	switch w.Kind {
	case kindContent:
		return &ast.ContentStatement{Value: w.Value, Original: w.Original, Loc: loc}, nil
	case kindComment:
		return &ast.CommentStatement{Value: w.Value, Loc: loc}, nil
	}

	path, params, hash, err := d.call(w)
	if err != nil {
		return nil, err
	}
	program, err := d.program(w.Program)
	if err != nil {
		return nil, err
	}

	switch w.Kind {
	case kindMustache:
		return &ast.MustacheStatement{Path: path, Params: params, Hash: hash, Escaped: w.Escaped, Loc: loc}, nil
	case kindBlock:
		inverse, err := d.program(w.Inverse)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStatement{Path: path, Params: params, Hash: hash, Program: program, Inverse: inverse, Loc: loc}, nil
	case kindPartial:
		return &ast.PartialStatement{Name: path, Params: params, Hash: hash, Indent: w.Indent, Loc: loc}, nil
	case kindPartialBlock:
		return &ast.PartialBlockStatement{Name: path, Params: params, Hash: hash, Program: program, Loc: loc}, nil
	case kindDecorator:
		return &ast.DecoratorStatement{Path: path, Params: params, Hash: hash, Loc: loc}, nil
	case kindDecoratorBlock:
		return &ast.DecoratorBlock{Path: path, Params: params, Hash: hash, Program: program, Loc: loc}, nil
	}
	return nil, fmt.Errorf("precompile: unknown statement kind %q", w.Kind)
}

func (d decoder) expression(w *wireNode) (ast.Expression, error) {
	if w == nil {
		return nil, nil
	}
	loc := d.loc(w.Loc)
	switch w.Kind {
	case kindPath:
		return &ast.PathExpression{Data: w.Data, Depth: w.Depth, Parts: w.Parts, Original: w.Original, Loc: loc}, nil
	case kindString:
		return &ast.StringLiteral{Value: w.Value, Original: w.Original, Loc: loc}, nil
	case kindNumber:
		return &ast.NumberLiteral{Value: w.Number, Original: w.Original, Loc: loc}, nil
	case kindBoolean:
		return &ast.BooleanLiteral{Value: w.Bool, Original: w.Original, Loc: loc}, nil
	case kindNull:
		return &ast.NullLiteral{Loc: loc}, nil
	case kindUndefined:
		return &ast.UndefinedLiteral{Loc: loc}, nil
	case kindSubExpression:
		path, params, hash, err := d.call(w)
		if err != nil {
			return nil, err
		}
		return &ast.SubExpression{Path: path, Params: params, Hash: hash, Loc: loc}, nil
	}
	return nil, fmt.Errorf("precompile: unknown expression kind %q", w.Kind)
}
