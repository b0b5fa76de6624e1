package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/docgrab"
)

// Ensure TerminalNotifier implements docgrab.Notifier at compile time.
var _ docgrab.Notifier = (*TerminalNotifier)(nil)

// TerminalNotifier prints notifications as single lines. When disabled it
// drops them silently.
type TerminalNotifier struct {
	w       io.Writer
	enabled bool
}

// NewTerminalNotifier creates a TerminalNotifier writing to w.
func NewTerminalNotifier(w io.Writer, enabled bool) *TerminalNotifier {
	return &TerminalNotifier{w: w, enabled: enabled}
}

// Notify writes "Title: Message".
func (n *TerminalNotifier) Notify(_ context.Context, notification docgrab.Notification) error {
	if !n.enabled {
		return nil
	}
	_, err := fmt.Fprintf(n.w, "%s: %s\n", notification.Title, notification.Message)
	return err
}
