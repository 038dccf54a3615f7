package handlebars

import (
	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/parser"
)

// Parse exposes the template parser from the top-level module.
func Parse(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

// ParseNamed parses source, recording name as the location source.
func ParseNamed(name, source string) (*ast.Program, error) {
	return parser.ParseNamed(name, source)
}
