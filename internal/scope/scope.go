// Package scope holds the three name-resolution stacks of one render: the
// evaluation subject, the private-data frames and the block parameters.
package scope

import (
	"github.com/goliatone/go-handlebars/internal/stack"
	"github.com/goliatone/go-handlebars/pkg/access"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Scope aggregates the stacks for a single render session. It is not safe
// for concurrent use.
type Scope struct {
	Context     *Context
	Data        *Data
	BlockParams *BlockParams
	Policy      *access.Policy
}

// New returns an empty scope whose context reads go through policy.
func New(policy *access.Policy) *Scope {
	return &Scope{
		Context:     &Context{policy: policy},
		Data:        &Data{policy: policy},
		BlockParams: &BlockParams{policy: policy},
		Policy:      policy,
	}
}

// LookupProperty reads one member through the scope's policy.
func (s *Scope) LookupProperty(obj any, name string) (any, bool) {
	return s.Policy.Lookup(obj, name)
}

// Depths reports the current length of each stack.
func (s *Scope) Depths() (context, data, blockParams int) {
	return s.Context.Len(), s.Data.Len(), s.BlockParams.Len()
}

// Context is the stack of evaluation subjects.
type Context struct {
	stack  stack.Stack[any]
	policy *access.Policy
}

func (c *Context) Push(v any) { c.stack.Push(v) }

func (c *Context) Pop() { c.stack.Pop() }

// Top returns the current subject.
func (c *Context) Top() any {
	v, _ := c.stack.Top()
	return v
}

// At returns the subject depth levels up the stack.
func (c *Context) At(depth int) (any, bool) {
	return c.stack.Peek(depth)
}

func (c *Context) Len() int { return c.stack.Len() }

// Lookup resolves parts against the subject depth levels up the stack. It
// reports false when no subject exists at that depth or a hop misses.
func (c *Context) Lookup(parts []string, depth int) (any, bool) {
	subject, ok := c.stack.Peek(depth)
	if !ok || subject == nil {
		return nil, false
	}
	return c.policy.LookupPath(subject, parts)
}

// Data is the stack of private-data frames.
type Data struct {
	stack  stack.Stack[*value.Frame]
	policy *access.Policy
}

func (d *Data) Push(f *value.Frame) { d.stack.Push(f) }

func (d *Data) Pop() { d.stack.Pop() }

// Top returns the innermost frame, or nil.
func (d *Data) Top() *value.Frame {
	f, _ := d.stack.Top()
	return f
}

func (d *Data) Len() int { return d.stack.Len() }

// Lookup picks the frame stackDepth pushes down, follows its logical parent
// link logicalDepth times, then resolves parts against it. The frame's own
// entries are read directly; deeper hops go through the access policy.
func (d *Data) Lookup(parts []string, logicalDepth, stackDepth int) (any, bool) {
	frame, ok := d.stack.Peek(stackDepth)
	for ok && frame != nil && logicalDepth > 0 {
		frame = frame.Parent()
		logicalDepth--
	}
	if !ok || frame == nil {
		return nil, false
	}
	if len(parts) == 0 {
		return frame, true
	}
	first, found := frame.Get(parts[0])
	if !found {
		return nil, false
	}
	return d.policy.LookupPath(first, parts[1:])
}

// Index locates a block parameter: Depth frames out from the innermost
// block, position Index in that block's declaration.
type Index struct {
	Depth int
	Index int
}

type paramFrame struct {
	names  []string
	values []any
}

// BlockParams keeps declared names and bound values in one frame, so the
// two can never drift apart.
type BlockParams struct {
	stack  stack.Stack[paramFrame]
	policy *access.Policy
}

// Push binds values to names for the duration of a block.
func (b *BlockParams) Push(names []string, values []any) {
	b.stack.Push(paramFrame{names: names, values: values})
}

func (b *BlockParams) Pop() { b.stack.Pop() }

func (b *BlockParams) Len() int { return b.stack.Len() }

// Find scans outward from the innermost block and returns the first
// declaration of name.
func (b *BlockParams) Find(name string) (Index, bool) {
	for depth := 0; depth < b.stack.Len(); depth++ {
		frame, _ := b.stack.Peek(depth)
		for i, declared := range frame.names {
			if declared == name {
				return Index{Depth: depth, Index: i}, true
			}
		}
	}
	return Index{}, false
}

// Value fetches the bound value at idx and resolves rest through it.
func (b *BlockParams) Value(idx Index, rest []string) (any, bool) {
	frame, ok := b.stack.Peek(idx.Depth)
	if !ok {
		return nil, false
	}
	var bound any
	if idx.Index < len(frame.values) {
		bound = frame.values[idx.Index]
	}
	if len(rest) == 0 {
		return bound, true
	}
	return b.policy.LookupPath(bound, rest)
}
