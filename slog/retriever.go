package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

// Ensure LoggingRetriever implements docgrab.Retriever.
var _ docgrab.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with logging. Failed outcomes are
// logged at warn level with their error code.
type LoggingRetriever struct {
	next   docgrab.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next docgrab.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve delegates to the wrapped retriever and logs the outcome.
func (r *LoggingRetriever) Retrieve(ctx context.Context, ref docgrab.Reference) (outcome docgrab.Outcome) {
	defer func(begin time.Time) {
		if outcome.Succeeded {
			r.logger.Info("retrieve",
				"url", ref.URL,
				"strategy", outcome.Strategy,
				"succeeded", true,
				"duration", time.Since(begin),
			)
			return
		}
		r.logger.Warn("retrieve",
			"url", ref.URL,
			"strategy", outcome.Strategy,
			"succeeded", false,
			"duration", time.Since(begin),
			"code", docgrab.ErrorCode(outcome.Err),
			"err", outcome.Err,
		)
	}(time.Now())
	return r.next.Retrieve(ctx, ref)
}
