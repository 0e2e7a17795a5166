package core

import (
	"context"
	"log"

	"github.com/amityadav/searchagg/internal/search"
	"golang.org/x/sync/errgroup"
)

// SearchCore runs the aggregation pipeline over every registered provider
type SearchCore struct {
	registry *search.Registry
}

// NewSearchCore creates a new SearchCore instance
func NewSearchCore(registry *search.Registry) *SearchCore {
	return &SearchCore{registry: registry}
}

// Providers returns the number of providers consulted per search
func (c *SearchCore) Providers() int {
	return c.registry.Count()
}

// Search fetches every provider, then deduplicates, facet-filters and
// normalizes the combined results. Any provider failure fails the whole call.
func (c *SearchCore) Search(ctx context.Context, query search.Query) ([]search.Result, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	log.Printf("[Search] Searching for term: %s with facets: %v", query.SearchTerm, query.Facets)

	combined, err := c.fetchAll(ctx, query.SearchTerm)
	if err != nil {
		log.Printf("[Search] An error occurred: %v", err)
		return nil, err
	}

	processed := Aggregate(combined, query.Facets)
	NormalizeSnippets(processed)

	log.Printf("[Search] %d fetched, %d after aggregation", len(combined), len(processed))
	return processed, nil
}

// fetchAll queries providers concurrently and concatenates their output in
// registration order. When several fail, the earliest-registered error is returned.
func (c *SearchCore) fetchAll(ctx context.Context, term string) ([]search.Result, error) {
	providers := c.registry.GetAll()
	outputs := make([][]search.Result, len(providers))
	errs := make([]error, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			outputs[i], errs[i] = p.Search(ctx, term)
			return errs[i]
		})
	}
	if g.Wait() != nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	var combined []search.Result
	for _, out := range outputs {
		combined = append(combined, out...)
	}
	return combined, nil
}
