package core

import "github.com/amityadav/searchagg/internal/search"

// Aggregate deduplicates results by URL and applies the facet filter in a
// single pass, preserving input order. The first occurrence of a URL wins.
//
// A record rejected by the facet filter still marks its URL as seen, so a
// later duplicate from a matching source is not admitted either.
// TODO: decide whether filtered-out records should reserve their URL; this
// keeps the behaviour existing clients were built against.
func Aggregate(results []search.Result, facets []string) []search.Result {
	allowed := make(map[string]struct{}, len(facets))
	for _, f := range facets {
		allowed[f] = struct{}{}
	}

	seen := make(map[string]struct{}, len(results))
	processed := make([]search.Result, 0, len(results))
	for _, r := range results {
		if _, exists := seen[r.URL]; exists {
			continue
		}
		seen[r.URL] = struct{}{}

		if len(allowed) > 0 {
			if _, ok := allowed[string(r.Source)]; !ok {
				continue
			}
		}
		processed = append(processed, r)
	}
	return processed
}
