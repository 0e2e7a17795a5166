package server

import (
	"log"

	"github.com/amityadav/searchagg/internal/config"
	"github.com/amityadav/searchagg/internal/core"
	"github.com/amityadav/searchagg/internal/customsearch"
	"github.com/amityadav/searchagg/internal/reddit"
	"github.com/amityadav/searchagg/internal/search"
	"github.com/amityadav/searchagg/internal/serpapi"
)

// Initialize sets up all application services without the fx container
func Initialize(cfg config.Config) Services {
	return Services{
		Searcher: core.NewSearchCore(NewSearchRegistry(cfg)),
	}
}

// NewSearchRegistry registers the web search provider followed by the
// discussion provider. Registration order is result order.
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()
	registry.Register(NewWebSearchProvider(cfg))

	log.Printf("  - Registering Reddit discussion provider (%s)", cfg.RedditBaseURL)
	registry.Register(reddit.NewClient(cfg.RedditBaseURL, cfg.RedditUserAgent, cfg.ProviderTimeout))

	log.Printf("  - Total search providers registered: %d (%s)", registry.Count(), registry.Names())
	return registry
}

// NewWebSearchProvider picks the web search backend from configuration
func NewWebSearchProvider(cfg config.Config) search.Provider {
	switch cfg.WebSearchBackend {
	case config.BackendCustomSearch:
		log.Printf("  - Registering Google Custom Search provider")
		return customsearch.NewClient(cfg.GoogleAPIKey, cfg.GoogleCSEID).WithTimeout(cfg.ProviderTimeout)
	case config.BackendSerpAPI:
	default:
		log.Printf("  - Unknown web search backend %q, using %s", cfg.WebSearchBackend, config.BackendSerpAPI)
	}
	if cfg.SerpAPIKey == "" {
		log.Printf("WARNING: SERPAPI_API_KEY is not set, every search will fail")
	}
	log.Printf("  - Registering SerpApi (Google) search provider")
	return serpapi.NewClient(cfg.SerpAPIKey)
}
