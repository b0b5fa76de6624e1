package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

// Ensure LoggingTransferer implements docgrab.Transferer.
var _ docgrab.Transferer = (*LoggingTransferer)(nil)

// LoggingTransferer wraps a Transferer with logging.
type LoggingTransferer struct {
	next   docgrab.Transferer
	logger *slog.Logger
}

// NewLoggingTransferer creates a new LoggingTransferer.
func NewLoggingTransferer(next docgrab.Transferer, logger *slog.Logger) *LoggingTransferer {
	return &LoggingTransferer{next: next, logger: logger}
}

// Submit delegates to the wrapped transferer and logs the result.
func (t *LoggingTransferer) Submit(ctx context.Context, req docgrab.TransferRequest) (transfer *docgrab.Transfer, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"source", req.Source,
			"filename", req.Filename,
			"duration", time.Since(begin),
		}
		if transfer != nil {
			attrs = append(attrs, "id", transfer.ID, "path", transfer.Path, "bytes", transfer.Bytes)
		}
		attrs = append(attrs, "err", err)
		t.logger.Info("transfer", attrs...)
	}(time.Now())
	return t.next.Submit(ctx, req)
}
