// Package ast defines the syntax tree produced by the parser and walked by
// the runtime. Trees are immutable once built and may be shared between
// concurrent renders.
package ast
