// Package search coordinates multiple search providers behind a single
// query interface, with result caching, per-provider rate limiting and
// deduplication of the merged result set.
package search

// Result is a single search hit returned by a provider.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Provider string `json:"provider"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Request describes one search invocation.
type Request struct {
	Query      string   `json:"query"`
	MaxResults int      `json:"max_results"`
	Providers  []string `json:"providers"` // priority order for the serial strategy
	Parallel   bool     `json:"parallel"`
	UseCache   bool     `json:"use_cache"`
	News       bool     `json:"news"`
}

// Response is the envelope handed back to the dispatch layer.
type Response struct {
	Success       bool     `json:"success"`
	Results       []Result `json:"results"`
	Count         int      `json:"count"`
	Query         string   `json:"query"`
	ProvidersUsed []string `json:"providers_used"`
	Parallel      bool     `json:"parallel"`
	FromCache     bool     `json:"from_cache"`
	Cached        bool     `json:"cached"`
	Errors        []string `json:"errors,omitempty"`
	RequestID     string   `json:"request_id"`
}
