package mock

import (
	"context"

	"github.com/fwojciec/docgrab"
)

// Compile-time interface verification.
var (
	_ docgrab.PageLocator = (*PageLocator)(nil)
	_ docgrab.PageContext = (*PageContext)(nil)
)

// PageLocator is a mock implementation of docgrab.PageLocator.
type PageLocator struct {
	ActivePageFn func(ctx context.Context) (docgrab.PageContext, error)
}

func (l *PageLocator) ActivePage(ctx context.Context) (docgrab.PageContext, error) {
	return l.ActivePageFn(ctx)
}

// PageContext is a mock implementation of docgrab.PageContext.
type PageContext struct {
	SendFn func(ctx context.Context, in docgrab.Instruction) (*docgrab.Ack, error)
}

func (p *PageContext) Send(ctx context.Context, in docgrab.Instruction) (*docgrab.Ack, error) {
	return p.SendFn(ctx, in)
}
