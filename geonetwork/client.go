// Package geonetwork talks to a GeoNetwork catalog: it lists the ISO19139
// records a catalog publishes, names them, loads the catalog's category
// relations, and rewrites records through a transform.Transformer.
package geonetwork

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/time/rate"

	"github.com/lehigh-university-libraries/metadown/iso"
)

// DefaultTimeout bounds every request made by a Client from NewClient.
const DefaultTimeout = 30 * time.Second

const errorBodyLimit = 512

// Client issues GET requests against a catalog. Requests are never retried.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string

	limiter *rate.Limiter
}

// NewClient creates a Client whose requests time out after timeout and are
// throttled to requestsPerSecond. A non-positive rate disables throttling.
func NewClient(timeout time.Duration, requestsPerSecond float64) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: "metadown",
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Open issues a GET and returns the body of a 2xx response. The caller
// closes it.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		slog.Debug("network request failed", "url", url, "error", err, "duration", time.Since(start))
		return nil, &FetchError{URL: url, Err: err}
	}

	slog.Debug("network request complete", "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	return resp.Body, nil
}

// Get issues a GET and reads the whole body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return data, nil
}

// GetDocument fetches and parses an XML document.
func (c *Client) GetDocument(ctx context.Context, url string) (*etree.Document, error) {
	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := iso.ReadDocument(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Source: url, Err: err}
	}
	return doc, nil
}
