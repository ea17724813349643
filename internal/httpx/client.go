// Package httpx wraps HTTP operations shared by the catalog bindings.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps HTTP operations with catalog-friendly configuration.
//
// Client provides:
//   - A browser-like User-Agent header
//   - Timeout handling
//   - Client-side rate limiting so bursts of lookups stay polite
//   - JSON POST with decode, the shape the search API speaks
//
// Example usage:
//
//	client := httpx.NewClient()
//
//	var out searchResponse
//	err := client.PostJSON(ctx, endpoint, payload, &out)
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 30 second timeout
//   - A desktop browser User-Agent (the search API rejects unknown agents)
//   - A limiter allowing roughly 2 requests per second
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// Do applies rate limiting and common headers, then executes the request.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if the request fails, the response status is not
// 200 OK, or reading the body fails.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// PostJSON sends body as JSON and decodes the JSON response into out.
//
// Pass nil for out to discard the response body.
//
// Example:
//
//	var result searchResponse
//	err := client.PostJSON(ctx, searchEndpoint, request, &result)
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
