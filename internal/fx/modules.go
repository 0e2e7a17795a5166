package fx

import (
	"log"

	"github.com/amityadav/searchagg/internal/config"
	"github.com/amityadav/searchagg/internal/core"
	"github.com/amityadav/searchagg/internal/search"
	"github.com/amityadav/searchagg/internal/server"
	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// SearchModule provides search registry with all search providers
var SearchModule = fx.Module("search",
	fx.Provide(NewSearchRegistry),
)

// CoreModule provides the aggregation pipeline
var CoreModule = fx.Module("core",
	fx.Provide(
		NewSearchCore,
		NewSearcher,
	),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewSearchRegistry creates search registry with the web and discussion providers
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := server.NewSearchRegistry(cfg)
	log.Printf("[FX] SearchRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewSearchCore creates the search pipeline
func NewSearchCore(registry *search.Registry) *core.SearchCore {
	c := core.NewSearchCore(registry)
	log.Printf("[FX] SearchCore initialized")
	return c
}

// NewSearcher exposes the pipeline to the delivery surface
func NewSearcher(c *core.SearchCore) server.Searcher {
	return c
}
