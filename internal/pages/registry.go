package pages

// Entry is a single registered page.
type Entry struct {
	ID          string
	Title       string
	Description string // plain text, may be empty
	Nav         bool   // listed in site navigation
	Producer    Producer
}

// Option customises an entry at registration time.
type Option func(*Entry)

// WithDescription sets the plain-text summary of the page.
func WithDescription(desc string) Option {
	return func(e *Entry) { e.Description = desc }
}

// Hidden keeps the page reachable by identifier but out of navigation.
func Hidden() Option {
	return func(e *Entry) { e.Nav = false }
}

// Builder accumulates entries before the registry is frozen.
// A Builder is not safe for concurrent use.
type Builder struct {
	defaultID string
	order     []string
	entries   map[string]Entry
}

// NewBuilder starts a registry whose fallback page is defaultID.
func NewBuilder(defaultID string) *Builder {
	return &Builder{
		defaultID: defaultID,
		entries:   map[string]Entry{},
	}
}

// Register adds a page. It fails with a *ConfigurationError when id is
// malformed or already present, or when producer is nil.
func (b *Builder) Register(id, title string, producer Producer, opts ...Option) error {
	if !ValidIdentifier(id) {
		return configError(id, ErrInvalidIdentifier)
	}
	if _, exists := b.entries[id]; exists {
		return configError(id, ErrDuplicateIdentifier)
	}
	if producer == nil {
		return configError(id, ErrNilProducer)
	}
	e := Entry{ID: id, Title: title, Nav: true, Producer: producer}
	for _, opt := range opts {
		opt(&e)
	}
	b.entries[id] = e
	b.order = append(b.order, id)
	return nil
}

// Build freezes the builder into a Registry. It fails when the default page
// is not registered.
func (b *Builder) Build() (*Registry, error) {
	if _, ok := b.entries[b.defaultID]; !ok {
		return nil, configError(b.defaultID, ErrDefaultNotRegistered)
	}
	r := &Registry{
		defaultID: b.defaultID,
		order:     make([]string, len(b.order)),
		entries:   make(map[string]Entry, len(b.entries)),
	}
	copy(r.order, b.order)
	for id, e := range b.entries {
		r.entries[id] = e
	}
	return r, nil
}

// Registry is the immutable allowlist of pages. It is safe for concurrent use.
type Registry struct {
	defaultID string
	order     []string
	entries   map[string]Entry
}

// Lookup returns the entry registered under id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// DefaultIdentifier returns the fallback page identifier.
func (r *Registry) DefaultIdentifier() string { return r.defaultID }

// Len returns the number of registered pages.
func (r *Registry) Len() int { return len(r.order) }

// Entries returns all entries in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}
