package http

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/docgrab"
)

// Ensure Opener implements docgrab.Opener at compile time.
var _ docgrab.Opener = (*Opener)(nil)

// Opener streams network sources for the transfer collaborator.
// Requests to the same host are spaced by an optional HostLimiter.
type Opener struct {
	client  *http.Client
	limiter *HostLimiter
}

// OpenerOption configures an Opener.
type OpenerOption func(*Opener)

// WithOpenerClient sets the HTTP client. Defaults to NewClient().
func WithOpenerClient(c *http.Client) OpenerOption {
	return func(o *Opener) {
		o.client = c
	}
}

// WithRateLimit limits requests per host to rps requests per second.
func WithRateLimit(rps float64) OpenerOption {
	return func(o *Opener) {
		o.limiter = NewHostLimiter(rps)
	}
}

// NewOpener creates a new Opener.
func NewOpener(opts ...OpenerOption) *Opener {
	o := &Opener{}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = NewClient()
	}
	return o
}

// Open issues a GET request for address and returns the response body.
// A non-success status is reported as ETRANSFER.
func (o *Opener) Open(ctx context.Context, address string) (io.ReadCloser, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, docgrab.Errorf(docgrab.EINVALID, "invalid source %q: %v", address, err)
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx, u); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, docgrab.Errorf(docgrab.ETRANSFER, "HTTP %d for %s", resp.StatusCode, address)
	}
	return resp.Body, nil
}
