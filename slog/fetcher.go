package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

// Ensure LoggingFetcher implements docgrab.Fetcher.
var _ docgrab.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   docgrab.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docgrab.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (doc *docgrab.Document, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if doc != nil {
			if doc.Location != url {
				attrs = append(attrs, "location", doc.Location)
			}
			attrs = append(attrs, "bytes", len(doc.HTML))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
