package runtime

import "github.com/goliatone/go-handlebars/pkg/access"

// CompileOptions are fixed when a template is compiled.
type CompileOptions struct {
	// NoEscape disables HTML escaping of `{{expr}}` output.
	NoEscape bool `json:"noEscape,omitempty" yaml:"noEscape,omitempty" toml:"noEscape,omitempty"`
	// Data enables the private-data channel (`@index`, `@root`, ...). Unset
	// means enabled.
	Data *bool `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`

	// TrackIDs and StringParams are no longer supported; compiling with
	// either set fails.
	TrackIDs     bool `json:"trackIds,omitempty" yaml:"trackIds,omitempty" toml:"trackIds,omitempty"`
	StringParams bool `json:"stringParams,omitempty" yaml:"stringParams,omitempty" toml:"stringParams,omitempty"`
}

// DataEnabled reports whether private data is on.
func (o CompileOptions) DataEnabled() bool {
	return o.Data == nil || *o.Data
}

// RuntimeOptions vary per render.
type RuntimeOptions struct {
	// Data is merged over {root: context} to form the root data frame.
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`
	// BlockParams binds values to the root program's declared block
	// parameters, for trees that are block bodies.
	BlockParams []any `json:"blockParams,omitempty" yaml:"blockParams,omitempty" toml:"blockParams,omitempty"`

	access.Config `yaml:",inline"`
}
