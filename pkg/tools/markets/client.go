// Package markets implements Scout's market data tools: a thin REST client
// over a quote/candles API with a local response cache so repeated lookups
// during one agent run do not re-fetch.
package markets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quantfold/scout/pkg/config"
)

// Client issues parameterized GET requests against the market data API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *responseCache
}

// NewClient creates a client from configuration. Responses are cached for
// the configured TTL, keyed by the canonical request URL.
func NewClient(cfg config.MarketsConfig) *Client {
	ttl := time.Duration(cfg.CacheTTLSecs) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      newResponseCache(ttl),
	}
}

// Get fetches path with the given query parameters, returning the raw
// response body. Cached responses are served without a network round trip.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	requestURL, err := c.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	if body, ok := c.cache.get(requestURL); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned %d: %s", resp.StatusCode, truncateBody(body))
	}

	c.cache.put(requestURL, body)
	return body, nil
}

// buildURL joins the base URL, path, and sorted query parameters into the
// canonical form used as the cache key.
func (c *Client) buildURL(path string, params url.Values) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	joined, err := base.Parse(base.Path + path)
	if err != nil {
		return "", fmt.Errorf("invalid request path: %w", err)
	}
	joined.RawQuery = params.Encode() // Encode sorts keys
	return joined.String(), nil
}

func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
