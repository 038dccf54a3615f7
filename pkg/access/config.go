package access

// Config is the per-render access configuration. Maps mark individual
// inherited members as allowed (true) or denied (false); the defaults apply
// to members absent from the maps. A nil default means "not configured",
// which denies with a diagnostic, while an explicit false denies silently.
type Config struct {
	AllowedProtoProperties        map[string]bool `json:"allowedProtoProperties,omitempty" yaml:"allowedProtoProperties,omitempty" toml:"allowedProtoProperties,omitempty"`
	AllowedProtoMethods           map[string]bool `json:"allowedProtoMethods,omitempty" yaml:"allowedProtoMethods,omitempty" toml:"allowedProtoMethods,omitempty"`
	AllowProtoPropertiesByDefault *bool           `json:"allowProtoPropertiesByDefault,omitempty" yaml:"allowProtoPropertiesByDefault,omitempty" toml:"allowProtoPropertiesByDefault,omitempty"`
	AllowProtoMethodsByDefault    *bool           `json:"allowProtoMethodsByDefault,omitempty" yaml:"allowProtoMethodsByDefault,omitempty" toml:"allowProtoMethodsByDefault,omitempty"`
}

// Bool returns a pointer to b, for the tri-state defaults.
func Bool(b bool) *bool { return &b }

// members that stay denied even when an allow list or default admits them.
var (
	deniedMethods = map[string]bool{
		"constructor":      true,
		"__defineGetter__": true,
		"__defineSetter__": true,
		"__lookupGetter__": true,
	}
	deniedProperties = map[string]bool{
		"__proto__": true,
	}
)

type rule struct {
	allow map[string]bool
	def   *bool
	deny  map[string]bool
}

// permits reports whether the inherited member may be read and whether the
// refusal, if any, should be reported.
func (r rule) permits(name string) (allowed, report bool) {
	if r.deny[name] {
		return false, false
	}
	if allowed, ok := r.allow[name]; ok {
		return allowed, false
	}
	if r.def != nil {
		return *r.def, false
	}
	return false, true
}
