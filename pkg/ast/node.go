package ast

import "fmt"

// Position is a 1-based line and 0-based column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Loc is the source span of a node.
type Loc struct {
	Source string   `json:"source,omitempty"`
	Start  Position `json:"start"`
	End    Position `json:"end"`
}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d", l.Start.Line, l.Start.Column)
}

// Node is implemented by every syntax node.
type Node interface {
	Location() Loc
}

// Statement is a node that appears in a Program body.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is a sequence of statements, optionally declaring block
// parameters when it is the body of a block.
type Program struct {
	Body        []Statement
	BlockParams []string
	Loc         Loc
}

type ContentStatement struct {
	Value    string
	Original string
	Loc      Loc
}

type CommentStatement struct {
	Value string
	Loc   Loc
}

// MustacheStatement is `{{expr}}`; Escaped is false for `{{{expr}}}` and
// `{{& expr}}`.
type MustacheStatement struct {
	Path    Expression
	Params  []Expression
	Hash    *Hash
	Escaped bool
	Loc     Loc
}

type BlockStatement struct {
	Path    Expression
	Params  []Expression
	Hash    *Hash
	Program *Program
	Inverse *Program
	Loc     Loc
}

// PartialStatement is `{{> name ctx key=value}}`.
type PartialStatement struct {
	Name   Expression
	Params []Expression
	Hash   *Hash
	Indent string
	Loc    Loc
}

// PartialBlockStatement is `{{#> name}}fallback{{/name}}`.
type PartialBlockStatement struct {
	Name    Expression
	Params  []Expression
	Hash    *Hash
	Program *Program
	Loc     Loc
}

type DecoratorStatement struct {
	Path   Expression
	Params []Expression
	Hash   *Hash
	Loc    Loc
}

type DecoratorBlock struct {
	Path    Expression
	Params  []Expression
	Hash    *Hash
	Program *Program
	Loc     Loc
}

type SubExpression struct {
	Path   Expression
	Params []Expression
	Hash   *Hash
	Loc    Loc
}

// PathExpression is a dotted lookup. Depth counts `../` hops, Data marks
// `@` paths, and an empty Parts denotes the current subject.
type PathExpression struct {
	Data     bool
	Depth    int
	Parts    []string
	Original string
	Loc      Loc
}

type StringLiteral struct {
	Value    string
	Original string
	Loc      Loc
}

type NumberLiteral struct {
	Value    float64
	Original string
	Loc      Loc
}

type BooleanLiteral struct {
	Value    bool
	Original string
	Loc      Loc
}

type NullLiteral struct {
	Loc Loc
}

type UndefinedLiteral struct {
	Loc Loc
}

type Hash struct {
	Pairs []*HashPair
	Loc   Loc
}

type HashPair struct {
	Key   string
	Value Expression
	Loc   Loc
}

func (n *Program) Location() Loc               { return n.Loc }
func (n *ContentStatement) Location() Loc      { return n.Loc }
func (n *CommentStatement) Location() Loc      { return n.Loc }
func (n *MustacheStatement) Location() Loc     { return n.Loc }
func (n *BlockStatement) Location() Loc        { return n.Loc }
func (n *PartialStatement) Location() Loc      { return n.Loc }
func (n *PartialBlockStatement) Location() Loc { return n.Loc }
func (n *DecoratorStatement) Location() Loc    { return n.Loc }
func (n *DecoratorBlock) Location() Loc        { return n.Loc }
func (n *SubExpression) Location() Loc         { return n.Loc }
func (n *PathExpression) Location() Loc        { return n.Loc }
func (n *StringLiteral) Location() Loc         { return n.Loc }
func (n *NumberLiteral) Location() Loc         { return n.Loc }
func (n *BooleanLiteral) Location() Loc        { return n.Loc }
func (n *NullLiteral) Location() Loc           { return n.Loc }
func (n *UndefinedLiteral) Location() Loc      { return n.Loc }
func (n *Hash) Location() Loc                  { return n.Loc }
func (n *HashPair) Location() Loc              { return n.Loc }

func (*ContentStatement) statementNode()      {}
func (*CommentStatement) statementNode()      {}
func (*MustacheStatement) statementNode()     {}
func (*BlockStatement) statementNode()        {}
func (*PartialStatement) statementNode()      {}
func (*PartialBlockStatement) statementNode() {}
func (*DecoratorStatement) statementNode()    {}
func (*DecoratorBlock) statementNode()        {}

func (*SubExpression) expressionNode()    {}
func (*PathExpression) expressionNode()   {}
func (*StringLiteral) expressionNode()    {}
func (*NumberLiteral) expressionNode()    {}
func (*BooleanLiteral) expressionNode()   {}
func (*NullLiteral) expressionNode()      {}
func (*UndefinedLiteral) expressionNode() {}

// Number returns the literal as an int when it is integral, otherwise as a
// float64.
func (n *NumberLiteral) Number() any {
	if i := int(n.Value); float64(i) == n.Value {
		return i
	}
	return n.Value
}
