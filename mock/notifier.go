package mock

import (
	"context"

	"github.com/fwojciec/docgrab"
)

var _ docgrab.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of docgrab.Notifier.
type Notifier struct {
	NotifyFn func(ctx context.Context, n docgrab.Notification) error
}

func (n *Notifier) Notify(ctx context.Context, notification docgrab.Notification) error {
	return n.NotifyFn(ctx, notification)
}
