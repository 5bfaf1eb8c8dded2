// File path: internal/source/client.go
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nicodishanthj/vaultstage/internal/common"
)

// Client fetches the full raw record batch from the source endpoint.
type Client struct {
	httpClient *http.Client
	transport  *http.Transport
	url        string
}

// New constructs a client for the given source URL. The timeout bounds the
// whole fetch, connect included.
func New(rawURL string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, errors.New("source url required")
	}
	if timeout <= 0 {
		return nil, errors.New("source timeout must be positive")
	}
	transport := &http.Transport{
		MaxIdleConns:    4,
		IdleConnTimeout: timeout,
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		transport:  transport,
		url:        trimmed,
	}, nil
}

// Fetch downloads the whole batch in a single blocking call. The source has
// no pagination contract, so the response body is the entire ordered set.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	if c == nil {
		return nil, errors.New("source client not configured")
	}
	logger := common.Logger()
	logger.Debug("source: downloading records", "url", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source records: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("source %s returned %s: %s", c.url, resp.Status, strings.TrimSpace(string(data)))
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode source records: %w", err)
	}
	logger.Debug("source: download complete", "count", len(records))
	return records, nil
}

// Close releases pooled transport resources.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}
