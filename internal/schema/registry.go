package schema

import (
	"sort"
	"sync"

	"github.com/vburojevic/errlens/internal/domain"
)

// Registry maps source-type names to extraction contracts. It is an
// explicitly constructed value with an initialization-then-read-only
// lifecycle: register contracts at startup, then share it freely across
// concurrent normalization calls. Reads are safe under concurrency;
// registration is not designed to race with extraction.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]*Contract
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[string]*Contract)}
}

// NewDefaultRegistry returns a registry preloaded with the built-in
// flat and nested contracts.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SourceFlat, FlatContract())
	r.Register(SourceNested, NestedContract())
	return r
}

// Register stores or replaces the contract for a source type.
func (r *Registry) Register(sourceType string, c *Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[sourceType] = c
}

// Lookup returns the contract for a source type. A missing contract is
// not an error; normalization falls back to generic extraction.
func (r *Registry) Lookup(sourceType string) (*Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[sourceType]
	return c, ok
}

// SourceTypes returns the registered source-type names, sorted.
func (r *Registry) SourceTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.contracts))
	for name := range r.contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CanonicalColumns returns the union of column names across all
// registered contracts plus the three canonical columns, sorted. Used by
// downstream consumers for schema discovery.
func (r *Registry) CanonicalColumns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := map[string]struct{}{
		domain.ColSource:    {},
		domain.ColErrorType: {},
		domain.ColTimestamp: {},
	}
	for _, c := range r.contracts {
		for _, f := range c.Fields() {
			set[f] = struct{}{}
		}
	}

	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
