package search

import "context"

// Provider defines the minimal interface that all search backends must implement.
//
// Search never returns an error. On any failure (transport, parse,
// unexpected markup shape) an implementation logs the problem and returns
// nil, so the manager treats throttling, absence of matches and outages
// uniformly as "this provider contributed nothing".
type Provider interface {
	// Name returns the registry name of the provider (e.g., "duckduckgo", "bing")
	Name() string

	// Search runs one query and returns at most limit results.
	// news switches the provider to its news vertical where it has one.
	Search(ctx context.Context, query string, limit int, news bool) []Result
}

// Registry manages available search providers
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(provider Provider) {
	r.providers[provider.Name()] = provider
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	provider, exists := r.providers[name]
	return provider, exists
}

// List returns all registered provider names
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
