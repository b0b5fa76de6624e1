package rod

import (
	"context"
	"time"

	"github.com/fwojciec/docgrab"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements docgrab.Fetcher at compile time.
var _ docgrab.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML by loading URLs into a Session's active
// page, so the last fetched page is also the context save instructions go to.
type Fetcher struct {
	session *Session
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page load timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a Fetcher backed by session. The Fetcher owns the
// session: closing one closes the other.
func NewFetcher(session *Session, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		session: session,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL and returns the rendered HTML. The timeout
// applies to the load alone, not to waiting for earlier loads to finish.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docgrab.Document, error) {
	return f.session.Load(ctx, url, f.timeout)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.session.Close()
}
