package parser

import "fmt"

// Error is a syntax error with the position of the offending tag or token.
type Error struct {
	Message string
	Source  string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s on line %d, column %d: %s", e.Source, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error on line %d, column %d: %s", e.Line, e.Column, e.Message)
}
