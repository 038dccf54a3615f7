package runtime

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-handlebars/pkg/ast"
)

var (
	// ErrReservedHook is returned when a template reads helperMissing or
	// blockHelperMissing as a value.
	ErrReservedHook = errors.New("reserved hook name")
	// ErrMissingHelper marks calls that no helper or hook could serve.
	ErrMissingHelper = errors.New("missing helper")
	// ErrPartialNotFound marks partial references with no definition.
	ErrPartialNotFound = errors.New("partial not found")
	// ErrArity marks helpers invoked with the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
)

// Exception is a template-level error. When the failing node is known the
// message carries its position as `message - line:column`.
type Exception struct {
	Message string
	Line    int
	Column  int
	Source  string
	Err     error
}

// NewException builds an Exception located at node, which may be nil.
func NewException(message string, node ast.Node) *Exception {
	e := &Exception{Message: message}
	if node != nil {
		loc := node.Location()
		e.Line, e.Column, e.Source = loc.Start.Line, loc.Start.Column, loc.Source
	}
	return e
}

// Errorf is NewException with a formatted message and a wrapped cause.
func Errorf(cause error, node ast.Node, format string, args ...any) *Exception {
	e := NewException(fmt.Sprintf(format, args...), node)
	e.Err = cause
	return e
}

func (e *Exception) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s - %d:%d", e.Message, e.Line, e.Column)
	}
	return e.Message
}

func (e *Exception) Unwrap() error { return e.Err }
