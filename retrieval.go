package docgrab

import (
	"context"
	"io"
)

// Strategy identifies how a reference was retrieved.
type Strategy string

// Retrieval strategies.
const (
	StrategyDirect      Strategy = "direct"
	StrategyBlobFetch   Strategy = "blob-fetch"
	StrategyPageTrigger Strategy = "page-trigger"
)

// Outcome is the result of retrieving one reference.
type Outcome struct {
	Reference Reference
	Succeeded bool
	Strategy  Strategy

	// Err describes the failure. Nil when Succeeded is true.
	Err error

	// Transfer is set when the transfer collaborator accepted the request.
	// The page-trigger strategy never produces one.
	Transfer *Transfer
}

// OutcomeFunc is called as outcomes are produced.
type OutcomeFunc func(Outcome)

// BatchResult summarizes one batch run.
type BatchResult struct {
	Outcomes     []Outcome
	SuccessCount int
}

// Failed returns the outcomes that did not succeed, in input order.
func (r *BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			failed = append(failed, o)
		}
	}
	return failed
}

// Retriever turns one reference into a locally saved file.
type Retriever interface {
	// Retrieve never returns an error; failures are captured in the Outcome.
	Retrieve(ctx context.Context, ref Reference) Outcome
}

// ConflictPolicy decides what happens when the target file already exists.
type ConflictPolicy int

// Conflict policies.
const (
	// ConflictUniquify never overwrites; the new file gets a " (n)" suffix.
	ConflictUniquify ConflictPolicy = iota
	ConflictOverwrite
)

// TransferRequest asks the transfer collaborator to save a source address.
type TransferRequest struct {
	Source   string
	Filename string
	Conflict ConflictPolicy

	// Prompt requests an interactive save dialog. Retrieval never sets it.
	Prompt bool
}

// Transfer is the handle of an accepted transfer.
type Transfer struct {
	ID       string
	Path     string
	Bytes    int64
	Checksum uint64
}

// Transferer saves the bytes behind a source address to local storage.
type Transferer interface {
	Submit(ctx context.Context, req TransferRequest) (*Transfer, error)
}

// Opener opens a source address for reading.
type Opener interface {
	Open(ctx context.Context, address string) (io.ReadCloser, error)
}

// BlobFetcher reads the bytes of a URL in-process.
type BlobFetcher interface {
	// FetchBlob returns EFETCH when the source answers with a non-success status.
	FetchBlob(ctx context.Context, url string) ([]byte, error)
}

// ObjectStore holds fetched bytes under short-lived addresses that a
// Transferer can read from.
type ObjectStore interface {
	CreateObject(data []byte) (address string, err error)
	RevokeObject(address string)
}

// Page context instructions.
const (
	ActionSaveFile = "save-file"
)

// Instruction is a command sent into a page context.
type Instruction struct {
	Action   string `json:"action"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Ack is a page context's reply to an Instruction.
type Ack struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PageContext is the isolated script environment of one rendered page.
type PageContext interface {
	// Send delivers the instruction and waits for the acknowledgement.
	// A returned error means the context could not be reached; an explicit
	// refusal is reported through Ack.Success.
	Send(ctx context.Context, in Instruction) (*Ack, error)
}

// PageLocator finds the currently active page context.
type PageLocator interface {
	// ActivePage returns ENOCONTEXT when no page context exists.
	ActivePage(ctx context.Context) (PageContext, error)
}
