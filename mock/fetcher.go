package mock

import (
	"context"

	"github.com/fwojciec/docgrab"
)

var _ docgrab.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docgrab.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*docgrab.Document, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*docgrab.Document, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ docgrab.BlobFetcher = (*BlobFetcher)(nil)

// BlobFetcher is a mock implementation of docgrab.BlobFetcher.
type BlobFetcher struct {
	FetchBlobFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *BlobFetcher) FetchBlob(ctx context.Context, url string) ([]byte, error) {
	return f.FetchBlobFn(ctx, url)
}
