package render

// BindPolicy controls which slice of event data a component receives.
// Components whose identity implies a privacy-relevant feature get an
// explicit allow-listed subset instead of the full record, so unrelated
// event fields never leak into client-exposed props.
type BindPolicy int

const (
	// BindFullEvent passes the whole event record.
	BindFullEvent BindPolicy = iota
	// BindRSVP passes only the fields the RSVP feature needs.
	BindRSVP
	// BindContribution passes only the contribution/bank fields.
	BindContribution
)

// Component is a renderer capability registered under a symbolic name.
type Component struct {
	Name   string
	Policy BindPolicy
}

// Registry maps symbolic component names to renderer capabilities.
// Templates are authored independently of this codebase and may reference
// names that have not shipped yet; Lookup misses are expected and non-fatal.
type Registry struct {
	components map[string]Component
}

// NewRegistry builds a registry from the given components.
func NewRegistry(components ...Component) *Registry {
	m := make(map[string]Component, len(components))
	for _, c := range components {
		m[c.Name] = c
	}
	return &Registry{components: m}
}

// Lookup resolves a component by name. ok is false for unknown names.
func (r *Registry) Lookup(componentName string) (Component, bool) {
	c, ok := r.components[componentName]
	return c, ok
}

// DefaultRegistry returns the registry of components shipped with the
// current renderer build.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Component{Name: "hero", Policy: BindFullEvent},
		Component{Name: "countdown", Policy: BindFullEvent},
		Component{Name: "story", Policy: BindFullEvent},
		Component{Name: "gallery", Policy: BindFullEvent},
		Component{Name: "schedule", Policy: BindFullEvent},
		Component{Name: "venue", Policy: BindFullEvent},
		Component{Name: "guestbook", Policy: BindFullEvent},
		Component{Name: "rsvp", Policy: BindRSVP},
		Component{Name: "contributions", Policy: BindContribution},
		Component{Name: "footer", Policy: BindFullEvent},
	)
}
