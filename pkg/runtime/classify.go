package runtime

import "github.com/goliatone/go-handlebars/pkg/ast"

// ExprType is how a call form is evaluated.
type ExprType int

const (
	// ExprHelper always invokes a helper (or helperMissing).
	ExprHelper ExprType = iota + 1
	// ExprAmbiguous invokes the callee when callable, else uses its value.
	ExprAmbiguous
	// ExprSimple uses the resolved value.
	ExprSimple
)

func (t ExprType) String() string {
	switch t {
	case ExprHelper:
		return "helper"
	case ExprAmbiguous:
		return "ambiguous"
	case ExprSimple:
		return "simple"
	}
	return "unknown"
}

// Classify decides how node, whose callee is path, is evaluated. isBlockParam
// reports whether a name is a block parameter in scope; a bare identifier
// shadowed by one is never a helper.
func Classify(node ast.Node, path *ast.PathExpression, isBlockParam func(name string) bool) ExprType {
	simple := ast.IsSimpleID(path)
	blockParam := simple && isBlockParam != nil && isBlockParam(path.Parts[0])
	if blockParam {
		return ExprSimple
	}
	if ast.IsHelperExpression(node) {
		return ExprHelper
	}
	if simple {
		return ExprAmbiguous
	}
	return ExprSimple
}
