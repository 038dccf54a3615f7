package access

// Policy applies a Config to member reads. The zero value and a nil *Policy
// behave like an empty Config.
type Policy struct {
	properties rule
	methods    rule
}

// NewPolicy builds the policy for one render.
func NewPolicy(cfg Config) *Policy {
	return &Policy{
		properties: rule{
			allow: cfg.AllowedProtoProperties,
			def:   cfg.AllowProtoPropertiesByDefault,
			deny:  deniedProperties,
		},
		methods: rule{
			allow: cfg.AllowedProtoMethods,
			def:   cfg.AllowProtoMethodsByDefault,
			deny:  deniedMethods,
		},
	}
}

var emptyPolicy = NewPolicy(Config{})

// Lookup reads name from obj. The boolean is false when obj is nil, the
// member does not exist, or the member is inherited and not allowed; the
// three cases are indistinguishable to callers.
func (p *Policy) Lookup(obj any, name string) (any, bool) {
	m, ok := Resolve(obj, name)
	if !ok {
		return nil, false
	}
	if m.Own || p.Allows(name, m.Callable) {
		return m.Value, true
	}
	return nil, false
}

// LookupPath folds Lookup over names, stopping at the first miss.
func (p *Policy) LookupPath(obj any, names []string) (any, bool) {
	current := obj
	for _, name := range names {
		next, ok := p.Lookup(current, name)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Allows decides on an inherited member, reporting the first refusal of a
// name that no rule covers.
func (p *Policy) Allows(name string, callable bool) bool {
	if p == nil || (p.properties.deny == nil && p.methods.deny == nil) {
		p = emptyPolicy
	}
	r := p.properties
	if callable {
		r = p.methods
	}
	allowed, report := r.permits(name)
	if !allowed && report {
		warnOnce(name)
	}
	return allowed
}
