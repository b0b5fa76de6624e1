package docgrab

import (
	"context"
	"fmt"
	"strings"
)

// Notification is a short user-facing message about retrieval progress.
type Notification struct {
	Title   string
	Message string
}

// Notifier presents notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// FailureNotification describes a single failed outcome.
func FailureNotification(o Outcome) Notification {
	return Notification{
		Title:   "Download Failed",
		Message: "Failed to download: " + o.Reference.Filename,
	}
}

// CompletionNotification summarizes a batch. The second return value is
// false when nothing succeeded and no summary should be shown.
func CompletionNotification(r *BatchResult, ext string) (Notification, bool) {
	if r == nil || r.SuccessCount == 0 {
		return Notification{}, false
	}
	kind := strings.ToUpper(strings.TrimPrefix(NormalizeExtension(ext), "."))
	return Notification{
		Title:   "Download Complete",
		Message: fmt.Sprintf("Successfully downloaded %d %s(s)", r.SuccessCount, kind),
	}, true
}
