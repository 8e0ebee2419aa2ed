package enrich

import (
	"fmt"
	"sort"
	"strings"
)

// Registry holds registered enrichment modes.
type Registry struct {
	enrichers map[string]Enricher
}

// DefaultRegistry is the global enricher registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new enricher registry.
func NewRegistry() *Registry {
	return &Registry{
		enrichers: make(map[string]Enricher),
	}
}

// Register adds an enricher to the registry.
func (r *Registry) Register(e Enricher) {
	r.enrichers[e.Name()] = e
}

// Get retrieves an enricher by name. An empty name selects Default.
func (r *Registry) Get(name string) (Enricher, error) {
	if name == "" {
		name = Default
	}
	e, ok := r.enrichers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown enrichment mode: %s", name)
	}
	return e, nil
}

// List returns all registered mode names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.enrichers))
	for name := range r.enrichers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds an enricher to the default registry.
func Register(e Enricher) {
	DefaultRegistry.Register(e)
}

// Get retrieves an enricher from the default registry.
func Get(name string) (Enricher, error) {
	return DefaultRegistry.Get(name)
}

// List returns the mode names in the default registry.
func List() []string {
	return DefaultRegistry.List()
}
