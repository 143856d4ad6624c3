// Package http provides HTTP-based implementations of secondbrain.Fetcher
// and secondbrain.SitemapService.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// maxBodyBytes caps fetched bodies; a preview never needs more.
const maxBodyBytes = 8 << 20

// Ensure Fetcher implements secondbrain.Fetcher at compile time.
var _ secondbrain.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves resources from URLs using plain HTTP requests. It does
// not execute JavaScript; use rod.Fetcher for JS-rendered sites.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the resource at the given URL. Any non-success status is
// an error; callers treat failure as "no preview available".
func (f *Fetcher) Fetch(ctx context.Context, url string) (*secondbrain.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, secondbrain.Errorf(secondbrain.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	return &secondbrain.Resource{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
