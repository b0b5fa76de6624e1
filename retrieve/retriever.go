// Package retrieve turns document references into locally saved files.
// Retriever selects a strategy per reference from its origin and falls back
// from an in-process blob fetch to a page-context save for local files;
// Batch runs a list of references through a Retriever in order.
package retrieve

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

// DefaultReleaseDelay is how long an ephemeral object outlives its transfer
// submission, giving the transfer time to start reading it.
const DefaultReleaseDelay = time.Second

// Ensure Retriever implements docgrab.Retriever at compile time.
var _ docgrab.Retriever = (*Retriever)(nil)

// Retriever retrieves one reference at a time.
//
// Network references go straight to Transfers. Local references are first
// read through Blobs, stored in Objects and transferred from there; when
// that read fails, the active page from Pages is asked to save the file.
type Retriever struct {
	Transfers docgrab.Transferer
	Blobs     docgrab.BlobFetcher
	Objects   docgrab.ObjectStore
	Pages     docgrab.PageLocator

	// ReleaseDelay defaults to DefaultReleaseDelay.
	ReleaseDelay time.Duration

	// Logger receives fallback diagnostics. Optional.
	Logger *slog.Logger
}

// Retrieve classifies ref by origin and runs the matching strategy.
// Failures are reported in the returned Outcome.
func (r *Retriever) Retrieve(ctx context.Context, ref docgrab.Reference) docgrab.Outcome {
	origin, err := docgrab.ClassifyOrigin(ref.URL)
	if err != nil {
		return failed(ref, docgrab.StrategyDirect, err)
	}

	switch origin {
	case docgrab.OriginNetwork:
		return r.direct(ctx, ref)
	case docgrab.OriginLocal:
		return r.local(ctx, ref)
	}
	return failed(ref, docgrab.StrategyDirect, docgrab.Errorf(docgrab.EINTERNAL, "unhandled origin %s", origin))
}

func (r *Retriever) direct(ctx context.Context, ref docgrab.Reference) docgrab.Outcome {
	transfer, err := r.submit(ctx, ref.URL, ref)
	if err != nil {
		return failed(ref, docgrab.StrategyDirect, err)
	}
	return succeeded(ref, docgrab.StrategyDirect, transfer)
}

func (r *Retriever) local(ctx context.Context, ref docgrab.Reference) docgrab.Outcome {
	outcome, err := r.blobFetch(ctx, ref)
	if err == nil {
		return outcome
	}
	r.logger().Debug("blob fetch failed, falling back to page context",
		"url", ref.URL,
		"err", message(err),
	)
	return r.pageTrigger(ctx, ref)
}

// blobFetch returns an error only when the attempt should fall back.
// Once the bytes are in hand, the transfer result is final.
func (r *Retriever) blobFetch(ctx context.Context, ref docgrab.Reference) (docgrab.Outcome, error) {
	if r.Blobs == nil || r.Objects == nil {
		return docgrab.Outcome{}, docgrab.Errorf(docgrab.EFETCH, "blob fetch not configured")
	}

	data, err := r.Blobs.FetchBlob(ctx, ref.URL)
	if err != nil {
		return docgrab.Outcome{}, err
	}

	address, err := r.Objects.CreateObject(data)
	if err != nil {
		return docgrab.Outcome{}, err
	}
	time.AfterFunc(r.releaseDelay(), func() {
		r.Objects.RevokeObject(address)
	})

	transfer, err := r.submit(ctx, address, ref)
	if err != nil {
		return failed(ref, docgrab.StrategyBlobFetch, err), nil
	}
	return succeeded(ref, docgrab.StrategyBlobFetch, transfer), nil
}

func (r *Retriever) pageTrigger(ctx context.Context, ref docgrab.Reference) docgrab.Outcome {
	if r.Pages == nil {
		return failed(ref, docgrab.StrategyPageTrigger, docgrab.Errorf(docgrab.ENOCONTEXT, "no active page context"))
	}

	page, err := r.Pages.ActivePage(ctx)
	if err == nil && page == nil {
		err = docgrab.Errorf(docgrab.ENOCONTEXT, "no active page context")
	}
	if err != nil {
		if docgrab.ErrorCode(err) != docgrab.ENOCONTEXT {
			err = docgrab.Errorf(docgrab.ENOCONTEXT, "no active page context: %s", message(err))
		}
		return failed(ref, docgrab.StrategyPageTrigger, err)
	}

	ack, err := page.Send(ctx, docgrab.Instruction{
		Action:   docgrab.ActionSaveFile,
		URL:      ref.URL,
		Filename: filename(ref),
	})
	if err != nil {
		return failed(ref, docgrab.StrategyPageTrigger,
			docgrab.Errorf(docgrab.ENOCONTEXT, "page context unreachable: %s", message(err)))
	}
	if ack == nil || !ack.Success {
		msg := "page context declined save"
		if ack != nil && ack.Error != "" {
			msg += ": " + ack.Error
		}
		return failed(ref, docgrab.StrategyPageTrigger, docgrab.Errorf(docgrab.EDECLINED, "%s", msg))
	}
	return succeeded(ref, docgrab.StrategyPageTrigger, nil)
}

// submit hands source to the transfer collaborator without prompting and
// without overwriting existing files.
func (r *Retriever) submit(ctx context.Context, source string, ref docgrab.Reference) (*docgrab.Transfer, error) {
	if r.Transfers == nil {
		return nil, docgrab.Errorf(docgrab.ETRANSFER, "no transfer collaborator configured")
	}
	transfer, err := r.Transfers.Submit(ctx, docgrab.TransferRequest{
		Source:   source,
		Filename: filename(ref),
		Conflict: docgrab.ConflictUniquify,
	})
	if err != nil {
		if docgrab.ErrorCode(err) != docgrab.ETRANSFER {
			err = docgrab.Errorf(docgrab.ETRANSFER, "%s", message(err))
		}
		return nil, err
	}
	return transfer, nil
}

func (r *Retriever) releaseDelay() time.Duration {
	if r.ReleaseDelay > 0 {
		return r.ReleaseDelay
	}
	return DefaultReleaseDelay
}

func (r *Retriever) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// filename returns the sanitized name to save ref under. References built
// by hand may carry an empty name; the URL then supplies one.
func filename(ref docgrab.Reference) string {
	if name := docgrab.SanitizeFilename(ref.Filename); name != "" {
		return name
	}
	if name := docgrab.SanitizeFilename(docgrab.FilenameFromURL(ref.URL, docgrab.DefaultExtension)); name != "" {
		return name
	}
	return docgrab.DefaultFilename(docgrab.DefaultExtension)
}

func failed(ref docgrab.Reference, s docgrab.Strategy, err error) docgrab.Outcome {
	return docgrab.Outcome{Reference: ref, Strategy: s, Err: err}
}

func succeeded(ref docgrab.Reference, s docgrab.Strategy, t *docgrab.Transfer) docgrab.Outcome {
	return docgrab.Outcome{Reference: ref, Succeeded: true, Strategy: s, Transfer: t}
}

// message returns the application message of err, or its text for
// foreign errors so transport details are not lost.
func message(err error) string {
	var e *docgrab.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
