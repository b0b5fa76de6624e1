package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

// Ensure LoggingExtractor implements docgrab.ReferenceExtractor.
var _ docgrab.ReferenceExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a ReferenceExtractor with logging.
type LoggingExtractor struct {
	next   docgrab.ReferenceExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next docgrab.ReferenceExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractReferences delegates to the wrapped extractor and logs how many
// references the page yielded.
func (e *LoggingExtractor) ExtractReferences(html string, location string) (refs []docgrab.Reference) {
	defer func(begin time.Time) {
		e.logger.Info("reference extraction",
			"location", location,
			"count", len(refs),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.ExtractReferences(html, location)
}
