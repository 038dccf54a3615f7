package ast

import (
	"regexp"
	"strconv"
)

// Call is the shared shape of nodes that name a callee with arguments.
type Call interface {
	Node
	Callee() Expression
	Args() []Expression
	HashArgs() *Hash
}

func (n *MustacheStatement) Callee() Expression { return n.Path }
func (n *MustacheStatement) Args() []Expression { return n.Params }
func (n *MustacheStatement) HashArgs() *Hash    { return n.Hash }
func (n *BlockStatement) Callee() Expression    { return n.Path }
func (n *BlockStatement) Args() []Expression    { return n.Params }
func (n *BlockStatement) HashArgs() *Hash       { return n.Hash }
func (n *SubExpression) Callee() Expression     { return n.Path }
func (n *SubExpression) Args() []Expression     { return n.Params }
func (n *SubExpression) HashArgs() *Hash        { return n.Hash }

var scopedID = regexp.MustCompile(`^\.|this\b`)

// IsScopedID reports paths written relative to the subject: `./x`,
// `this.x`, `.` and `this`.
func IsScopedID(p *PathExpression) bool {
	return scopedID.MatchString(p.Original)
}

// IsSimpleID reports a bare single-segment identifier with no ascent.
func IsSimpleID(p *PathExpression) bool {
	return len(p.Parts) == 1 && !IsScopedID(p) && p.Depth == 0
}

// IsHelperExpression reports calls that must be helper invocations: every
// sub-expression, and mustaches or blocks with parameters or a hash.
func IsHelperExpression(n Node) bool {
	switch node := n.(type) {
	case *SubExpression:
		return true
	case *MustacheStatement:
		return len(node.Params) > 0 || node.Hash != nil
	case *BlockStatement:
		return len(node.Params) > 0 || node.Hash != nil
	}
	return false
}

// LiteralToPath returns the callee as a path. Literal callees such as
// `{{0}}` or `{{false}}` become single-segment paths named by their source
// text; the input node is never modified.
func LiteralToPath(expr Expression) *PathExpression {
	var original string
	switch node := expr.(type) {
	case *PathExpression:
		return node
	case *StringLiteral:
		original = node.Value
	case *NumberLiteral:
		original = node.Original
		if original == "" {
			original = strconv.FormatFloat(node.Value, 'f', -1, 64)
		}
	case *BooleanLiteral:
		original = strconv.FormatBool(node.Value)
	case *NullLiteral:
		original = "null"
	case *UndefinedLiteral:
		original = "undefined"
	default:
		return nil
	}
	return &PathExpression{Parts: []string{original}, Original: original, Loc: expr.Location()}
}
