package search

import "strings"

// Registry holds all registered search providers in registration order
type Registry struct {
	providers []Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: []Provider{},
	}
}

// Register adds a provider to the registry. Results are concatenated in
// registration order, so the web search provider goes first.
func (r *Registry) Register(provider Provider) {
	r.providers = append(r.providers, provider)
}

// GetAll returns all registered providers
func (r *Registry) GetAll() []Provider {
	return r.providers
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	return len(r.providers)
}

// Names returns the source names of the registered providers
func (r *Registry) Names() string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = string(p.Source())
	}
	return strings.Join(names, "+")
}
