package serpapi

import (
	"context"
	"fmt"
	"log"

	"github.com/amityadav/searchagg/internal/search"
	g "github.com/serpapi/google-search-results-golang"
)

// searchFunc runs one SerpApi request and returns the decoded JSON payload
type searchFunc func(parameter map[string]string, apiKey string) (map[string]interface{}, error)

// Client is a wrapper around the SerpApi search service
type Client struct {
	apiKey string
	search searchFunc
}

// NewClient creates a new SerpApiClient
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		search: googleSearch,
	}
}

func googleSearch(parameter map[string]string, apiKey string) (map[string]interface{}, error) {
	s := g.NewGoogleSearch(parameter, apiKey)
	return s.GetJSON()
}

// Source returns the provider identifier
func (c *Client) Source() search.Source {
	return search.SourceGoogle
}

// Search performs a Google search via SerpApi and maps the organic results
func (c *Client) Search(ctx context.Context, term string) ([]search.Result, error) {
	if c.apiKey == "" {
		return nil, c.fail(fmt.Errorf("SerpApi API key is not set"))
	}
	if err := ctx.Err(); err != nil {
		return nil, c.fail(err)
	}

	parameter := map[string]string{
		"engine": "google",
		"q":      term,
	}

	log.Printf("[SerpApi] Searching for: %q", term)
	results, err := c.search(parameter, c.apiKey)
	if err != nil {
		log.Printf("[SerpApi] Search failed: %v", err)
		return nil, c.fail(fmt.Errorf("serpapi search failed: %w", err))
	}
	if msg, ok := results["error"].(string); ok && msg != "" {
		log.Printf("[SerpApi] API error: %s", msg)
		return nil, c.fail(fmt.Errorf("serpapi error: %s", msg))
	}

	// Focus on organic_results node
	organicResults, ok := results["organic_results"].([]interface{})
	if !ok {
		log.Printf("[SerpApi] No organic_results found in response")
		return []search.Result{}, nil
	}

	resultsList := make([]search.Result, 0, len(organicResults))
	for _, item := range organicResults {
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := res["title"].(string)
		link, _ := res["link"].(string)
		snippet, _ := res["snippet"].(string)

		resultsList = append(resultsList, search.Result{
			Source:  search.SourceGoogle,
			Title:   title,
			URL:     link,
			Snippet: snippet,
		})
	}

	log.Printf("[SerpApi] Found %d organic results", len(resultsList))
	return resultsList, nil
}

func (c *Client) fail(cause error) error {
	return &search.ProviderError{Source: search.SourceGoogle, Cause: cause}
}

var _ search.Provider = &Client{}
