package search

import (
	"context"
	"fmt"
)

// Source identifies which provider produced a result. Facets are matched
// against its string value.
type Source string

const (
	SourceGoogle Source = "Google" // web search
	SourceReddit Source = "Reddit" // discussion search
)

// Result is a single normalized search hit from any provider
type Result struct {
	Source  Source `json:"source"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Query is one search request as received from a caller
type Query struct {
	SearchTerm string   `json:"search_term"`
	Facets     []string `json:"facets"`
}

// Provider is the interface all search providers must implement
type Provider interface {
	// Source returns the source every result from this provider is tagged with
	Source() Source

	// Search runs a single search for term. A failed fetch is reported as *ProviderError.
	Search(ctx context.Context, term string) ([]Result, error)
}

// ProviderError reports that a provider could not deliver results
type ProviderError struct {
	Source Source
	Cause  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("error fetching %s search results: %v", e.Source, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ValidationError reports a malformed query
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid query: " + e.Reason
}
