package value

import "sort"

// Frame is one private-data frame (@index, @key, @root, ...). Frames carry a
// logical parent link that `@../name` ascent follows; the link is independent
// from how frames are stacked during a render.
type Frame struct {
	parent *Frame
	values map[string]any
}

// NewFrame builds a root frame holding a copy of values.
func NewFrame(values map[string]any) *Frame {
	f := &Frame{values: make(map[string]any, len(values))}
	for key, v := range values {
		f.values[key] = v
	}
	return f
}

// Child returns a new frame that starts with a copy of f's values and links
// back to f as its logical parent. Calling Child on a nil frame yields an
// empty root frame.
func (f *Frame) Child() *Frame {
	if f == nil {
		return NewFrame(nil)
	}
	child := NewFrame(f.values)
	child.parent = f
	return child
}

// Parent returns the logical parent frame, or nil at the root.
func (f *Frame) Parent() *Frame {
	if f == nil {
		return nil
	}
	return f.parent
}

// Get returns the value stored under key.
func (f *Frame) Get(key string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Value is Get without the presence flag.
func (f *Frame) Value(key string) any {
	v, _ := f.Get(key)
	return v
}

// Set stores value under key on this frame only.
func (f *Frame) Set(key string, v any) {
	if f == nil {
		return
	}
	if f.values == nil {
		f.values = make(map[string]any)
	}
	f.values[key] = v
}

// OwnProperty exposes frame entries as own members to property lookups.
func (f *Frame) OwnProperty(name string) (any, bool) {
	return f.Get(name)
}

// Keys lists the frame's entries in sorted order.
func (f *Frame) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, 0, len(f.values))
	for key := range f.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
