package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amityadav/searchagg/internal/search"
)

const (
	// DefaultBaseURL is where search.json is fetched from
	DefaultBaseURL = "https://www.reddit.com"

	// permalinkOrigin is the origin every post permalink is resolved against
	permalinkOrigin = "https://www.reddit.com"

	defaultUserAgent = "Mozilla/5.0"
)

// Client is a Reddit search API client
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a new Reddit API client
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Post is the subset of a listing child's data we use
type Post struct {
	Title     string `json:"title"`
	Selftext  string `json:"selftext"`
	Permalink string `json:"permalink"`
}

// SearchResponse represents the Reddit listing returned by search.json
type SearchResponse struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Source returns the provider identifier
func (c *Client) Source() search.Source {
	return search.SourceReddit
}

// Search queries search.json and maps every post that has both a title and a permalink
func (c *Client) Search(ctx context.Context, term string) ([]search.Result, error) {
	endpoint := c.baseURL + "/search.json?" + url.Values{"q": {term}}.Encode()

	log.Printf("[Reddit] Searching for: %q", term)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	log.Printf("[Reddit] Response status: %d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[Reddit] Error fetching search results: %s", string(bodyBytes))
		return nil, c.fail(fmt.Errorf("api error: %d", resp.StatusCode))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, c.fail(fmt.Errorf("failed to decode response: %w", err))
	}

	results := make([]search.Result, 0, len(searchResp.Data.Children))
	for _, child := range searchResp.Data.Children {
		post := child.Data
		if post.Title == "" || post.Permalink == "" {
			continue
		}
		results = append(results, search.Result{
			Source:  search.SourceReddit,
			Title:   post.Title,
			Snippet: post.Selftext,
			URL:     permalinkOrigin + post.Permalink,
		})
	}

	log.Printf("[Reddit] Found %d posts for query: %s", len(results), term)
	return results, nil
}

func (c *Client) fail(cause error) error {
	return &search.ProviderError{Source: search.SourceReddit, Cause: cause}
}

var _ search.Provider = &Client{}
