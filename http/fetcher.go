// Package http provides HTTP-based implementations of docgrab interfaces:
// page fetching for static sites and local files, in-process blob fetches
// and source openers for transfers.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docgrab"
)

// DefaultFetchTimeout is the default timeout for page requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Compile-time interface verification.
var (
	_ docgrab.Fetcher     = (*Fetcher)(nil)
	_ docgrab.BlobFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves content from http, https and file URLs.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static pages and local directory listings only.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for page requests made by Fetch.
// Defaults to DefaultFetchTimeout (10s) if not specified.
// Blob fetches are bounded by their context only.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets the HTTP client. Defaults to NewClient().
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
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
	if f.client == nil {
		f.client = NewClient()
	}
	return f
}

// Fetch retrieves the HTML content from the given URL. The returned
// location is the URL of the last request made, so redirects such as
// "/docs" to "/docs/" are reflected in it.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docgrab.Document, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	body, location, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return &docgrab.Document{Location: location, HTML: string(body)}, nil
}

// FetchBlob reads the bytes at url. A non-success status is reported as
// EFETCH; transport failures are returned unchanged.
func (f *Fetcher) FetchBlob(ctx context.Context, url string) ([]byte, error) {
	body, _, err := f.get(ctx, url)
	return body, err
}

// Size returns the content length reported for url by a HEAD request.
// Returns ENOTFOUND when the size is not reported.
func (f *Fetcher) Size(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, docgrab.Errorf(docgrab.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}
	if resp.ContentLength < 0 {
		return 0, docgrab.Errorf(docgrab.ENOTFOUND, "size of %s not reported", url)
	}
	return resp.ContentLength, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", docgrab.Errorf(docgrab.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", url, err)
	}

	location := url
	if resp.Request != nil && resp.Request.URL != nil {
		location = resp.Request.URL.String()
	}
	return body, location, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
