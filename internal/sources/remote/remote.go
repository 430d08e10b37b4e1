// Package remote fetches the dataset document over HTTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"txdash/internal/core"
	ports "txdash/internal/sources"
)

// DefaultURL is the published sample dataset.
const DefaultURL = "https://raw.githubusercontent.com/simon469/Customer-Transaction/master/data.json"

// maxBodyBytes bounds the document size read into memory.
const maxBodyBytes = 32 << 20

var _ ports.Source = (*Client)(nil)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

type Client struct {
	url  string
	http *http.Client
}

// New returns a client for url. A zero timeout means the request is bounded
// only by the caller's context.
func New(url string, timeout time.Duration) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("missing dataset URL")
	}
	return &Client{url: url, http: newHTTPClient(timeout)}, nil
}

// NewWithClient lets tests inject an *http.Client.
func NewWithClient(url string, hc *http.Client) *Client {
	return &Client{url: url, http: hc}
}

func (c *Client) Name() string { return c.url }

// Fetch issues a single GET. Transport errors, non-2xx statuses and
// undecodable bodies are all returned as errors; nothing is retried.
func (c *Client) Fetch(ctx context.Context) (core.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("GET %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return core.Dataset{}, &StatusError{URL: c.url, StatusCode: resp.StatusCode}
	}

	ds, err := core.DecodeDataset(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return core.Dataset{}, err
	}

	slog.DebugContext(ctx, "Fetched remote dataset",
		"url", c.url,
		"status", resp.StatusCode,
		"customers", len(ds.Customers),
		"transactions", len(ds.Transactions),
		"duration_ms", time.Since(start).Milliseconds())
	return ds, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
