package mock

import "github.com/fwojciec/docgrab"

var _ docgrab.ReferenceExtractor = (*ReferenceExtractor)(nil)

// ReferenceExtractor is a mock implementation of docgrab.ReferenceExtractor.
type ReferenceExtractor struct {
	ExtractReferencesFn func(html string, location string) []docgrab.Reference
}

func (e *ReferenceExtractor) ExtractReferences(html string, location string) []docgrab.Reference {
	return e.ExtractReferencesFn(html, location)
}
