package mock

import (
	"context"

	"github.com/fwojciec/docgrab"
)

var _ docgrab.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of docgrab.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, ref docgrab.Reference) docgrab.Outcome
}

func (r *Retriever) Retrieve(ctx context.Context, ref docgrab.Reference) docgrab.Outcome {
	return r.RetrieveFn(ctx, ref)
}
