// Package precompile stores parsed templates so they can be rendered later
// without reparsing. Specs are encoded as canonical CBOR.
package precompile

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/goliatone/go-handlebars/pkg/ast"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

// Version identifies the wire layout written by Encode.
const Version = 1

// Spec is a parsed template together with the options it was compiled with.
type Spec struct {
	AST     *ast.Program
	Options runtime.CompileOptions
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("precompile: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Encode serializes spec. Identical specs always encode to identical bytes.
func Encode(spec *Spec) ([]byte, error) {
	if spec == nil || spec.AST == nil {
		return nil, fmt.Errorf("precompile: spec has no AST")
	}
	w := &wireSpec{
		Version: Version,
		Source:  spec.AST.Loc.Source,
		Options: wireOptions{
			NoEscape:     spec.Options.NoEscape,
			Data:         spec.Options.Data,
			TrackIDs:     spec.Options.TrackIDs,
			StringParams: spec.Options.StringParams,
		},
		Program: encodeProgram(spec.AST),
	}
	data, err := encMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("precompile: marshal spec: %w", err)
	}
	return data, nil
}

// Decode restores a spec written by Encode.
func Decode(data []byte) (*Spec, error) {
	var w wireSpec
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("precompile: unmarshal spec: %w", err)
	}
	if w.Version != Version {
		return nil, fmt.Errorf("precompile: unsupported spec version %d", w.Version)
	}
	d := decoder{source: w.Source}
	program, err := d.program(w.Program)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, fmt.Errorf("precompile: spec has no AST")
	}
	return &Spec{
		AST: program,
		Options: runtime.CompileOptions{
			NoEscape:     w.Options.NoEscape,
			Data:         w.Options.Data,
			TrackIDs:     w.Options.TrackIDs,
			StringParams: w.Options.StringParams,
		},
	}, nil
}
