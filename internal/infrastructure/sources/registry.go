package sources

import (
	"sync"

	"github.com/ucuzbot/backend/internal/domain"
)

// Registry maps source IDs to adapter constructors. It is populated lazily on
// first lookup by its discover function, exactly once.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]domain.SourceConstructor
	order        []string

	once     sync.Once
	discover func(*Registry)
}

// NewRegistry creates a registry that runs discover on first use. discover may be nil.
func NewRegistry(discover func(*Registry)) *Registry {
	return &Registry{
		constructors: make(map[string]domain.SourceConstructor),
		discover:     discover,
	}
}

// Register adds a constructor. A second registration for the same ID replaces
// the first but keeps its position in the fan-out order.
func (r *Registry) Register(id string, constructor domain.SourceConstructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[id]; !exists {
		r.order = append(r.order, id)
	}
	r.constructors[id] = constructor
}

// Get returns the constructor for id
func (r *Registry) Get(id string) (domain.SourceConstructor, bool) {
	r.ensureDiscovered()

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.constructors[id]
	return c, ok
}

// All returns a copy of every registered constructor
func (r *Registry) All() map[string]domain.SourceConstructor {
	r.ensureDiscovered()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.SourceConstructor, len(r.constructors))
	for id, c := range r.constructors {
		out[id] = c
	}
	return out
}

// IDs returns the registered source IDs in registration order
func (r *Registry) IDs() []string {
	r.ensureDiscovered()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

func (r *Registry) ensureDiscovered() {
	r.once.Do(func() {
		if r.discover != nil {
			r.discover(r)
		}
	})
}

// builtinSources is the static registration table of every adapter in this package
var builtinSources = []struct {
	id    string
	build func(domain.SourceDescriptor, ClientOptions) domain.Source
}{
	{Kontakt, func(d domain.SourceDescriptor, o ClientOptions) domain.Source { return NewKontakt(d, o) }},
	{BakuElectronics, func(d domain.SourceDescriptor, o ClientOptions) domain.Source { return NewBakuElectronics(d, o) }},
	{Irshad, func(d domain.SourceDescriptor, o ClientOptions) domain.Source { return NewIrshad(d, o) }},
	{Maxi, func(d domain.SourceDescriptor, o ClientOptions) domain.Source { return NewMaxi(d, o) }},
	{TapAz, func(d domain.SourceDescriptor, o ClientOptions) domain.Source { return NewTapAz(d, o) }},
	{Umico, func(d domain.SourceDescriptor, o ClientOptions) domain.Source { return NewUmico(d, o) }},
}

// NewDefaultRegistry registers every built-in adapter present in the catalog.
// Each constructor call builds a fresh adapter with its own client.
func NewDefaultRegistry(catalog Catalog, opts ClientOptions) *Registry {
	return NewRegistry(func(r *Registry) {
		for _, entry := range builtinSources {
			desc, ok := catalog.Lookup(entry.id)
			if !ok {
				continue
			}
			build := entry.build
			r.Register(entry.id, func() domain.Source {
				return build(desc, opts)
			})
		}
	})
}
