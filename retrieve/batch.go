package retrieve

import (
	"context"

	"github.com/fwojciec/docgrab"
)

// Batch runs references through a Retriever strictly in order, one
// outcome at a time. A failed reference never stops the batch.
type Batch struct {
	Retriever docgrab.Retriever

	// Progress, if set, observes each outcome as it is recorded.
	Progress docgrab.OutcomeFunc
}

// Run retrieves every reference and returns outcomes in input order.
// It returns an error only when the batch cannot start at all.
func (b *Batch) Run(ctx context.Context, refs []docgrab.Reference) (*docgrab.BatchResult, error) {
	result := &docgrab.BatchResult{Outcomes: make([]docgrab.Outcome, 0, len(refs))}
	if len(refs) == 0 {
		return result, nil
	}
	if b.Retriever == nil {
		return nil, docgrab.Errorf(docgrab.EINVALID, "retriever required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ref := range refs {
		outcome := b.Retriever.Retrieve(ctx, ref)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Succeeded {
			result.SuccessCount++
		}
		if b.Progress != nil {
			b.Progress(outcome)
		}
	}

	return result, nil
}

// Announce sends one notification per failed outcome followed by a
// completion summary when anything succeeded. Notifier errors do not stop
// later notifications; the first one is returned.
func Announce(ctx context.Context, n docgrab.Notifier, result *docgrab.BatchResult, ext string) error {
	if n == nil || result == nil {
		return nil
	}

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, o := range result.Failed() {
		record(n.Notify(ctx, docgrab.FailureNotification(o)))
	}
	if summary, ok := docgrab.CompletionNotification(result, ext); ok {
		record(n.Notify(ctx, summary))
	}
	return firstErr
}
