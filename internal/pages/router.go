package pages

import "errors"

// Outcome records how a raw identifier was resolved.
type Outcome int

const (
	// Matched means the requested page was served.
	Matched Outcome = iota
	// Missing means no identifier was supplied.
	Missing
	// Invalid means the identifier failed validation and was never looked up.
	Invalid
	// Unknown means the identifier was well formed but not registered.
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Missing:
		return "missing"
	case Invalid:
		return "invalid"
	case Unknown:
		return "unknown"
	default:
		return "outcome(?)"
	}
}

// Fallback reports whether the default page was substituted.
func (o Outcome) Fallback() bool { return o != Matched }

// Resolution is the request-scoped result of routing.
type Resolution struct {
	Entry   Entry
	Outcome Outcome
}

// Router maps untrusted identifiers onto registry entries.
type Router struct {
	registry *Registry
	fallback Entry
}

// NewRouter returns a router over reg. It fails with a *ConfigurationError
// when reg is nil or its default page is not registered.
func NewRouter(reg *Registry) (*Router, error) {
	if reg == nil {
		return nil, configError("", errors.New("nil registry"))
	}
	fallback, ok := reg.Lookup(reg.DefaultIdentifier())
	if !ok {
		return nil, configError(reg.DefaultIdentifier(), ErrDefaultNotRegistered)
	}
	return &Router{registry: reg, fallback: fallback}, nil
}

// Registry returns the registry the router resolves against.
func (r *Router) Registry() *Registry { return r.registry }

// Resolve returns the entry for raw, or the default page when raw is empty,
// malformed or unknown. It never fails.
func (r *Router) Resolve(raw string) Entry {
	return r.Route(raw).Entry
}

// Route is Resolve that also reports why the default page was chosen.
func (r *Router) Route(raw string) Resolution {
	if raw == "" {
		return Resolution{Entry: r.fallback, Outcome: Missing}
	}
	if !ValidIdentifier(raw) {
		return Resolution{Entry: r.fallback, Outcome: Invalid}
	}
	if !r.registry.Has(raw) {
		return Resolution{Entry: r.fallback, Outcome: Unknown}
	}
	e, _ := r.registry.Lookup(raw)
	return Resolution{Entry: e, Outcome: Matched}
}
