package customsearch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amityadav/searchagg/internal/search"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Client implements search.Provider using the Google Custom Search JSON API.
// It is an alternative web search backend to SerpApi.
type Client struct {
	apiKey   string
	cx       string
	endpoint string
	timeout  time.Duration
}

// NewClient creates a new Google Custom Search API client.
func NewClient(apiKey, cx string) *Client {
	return &Client{
		apiKey: apiKey,
		cx:     cx,
	}
}

// WithEndpoint overrides the API endpoint
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// WithTimeout bounds every search call
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// Source returns the provider identifier
func (c *Client) Source() search.Source {
	return search.SourceGoogle
}

// Search runs one Custom Search request and maps its items
func (c *Client) Search(ctx context.Context, term string) ([]search.Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	service, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to create service: %w", err))
	}

	log.Printf("[CustomSearch] Searching for: %q", term)

	call := service.Cse.List()
	call.Q(term)
	call.Cx(c.cx)
	call.Context(ctx)

	searchResult, err := call.Do()
	if err != nil {
		log.Printf("[CustomSearch] Search failed: %v", err)
		return nil, c.fail(fmt.Errorf("custom search failed: %w", err))
	}

	results := make([]search.Result, 0, len(searchResult.Items))
	for _, item := range searchResult.Items {
		results = append(results, search.Result{
			Source:  search.SourceGoogle,
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}

	log.Printf("[CustomSearch] Found %d results", len(results))
	return results, nil
}

func (c *Client) fail(cause error) error {
	return &search.ProviderError{Source: search.SourceGoogle, Cause: cause}
}

var _ search.Provider = &Client{}
