package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docgrab"
)

// Compile-time interface verification.
var (
	_ docgrab.Transferer  = (*Transferer)(nil)
	_ docgrab.Opener      = (*Opener)(nil)
	_ docgrab.ObjectStore = (*ObjectStore)(nil)
)

// Transferer is a mock implementation of docgrab.Transferer.
type Transferer struct {
	SubmitFn func(ctx context.Context, req docgrab.TransferRequest) (*docgrab.Transfer, error)
}

func (t *Transferer) Submit(ctx context.Context, req docgrab.TransferRequest) (*docgrab.Transfer, error) {
	return t.SubmitFn(ctx, req)
}

// Opener is a mock implementation of docgrab.Opener.
type Opener struct {
	OpenFn func(ctx context.Context, address string) (io.ReadCloser, error)
}

func (o *Opener) Open(ctx context.Context, address string) (io.ReadCloser, error) {
	return o.OpenFn(ctx, address)
}

// ObjectStore is a mock implementation of docgrab.ObjectStore.
type ObjectStore struct {
	CreateObjectFn func(data []byte) (string, error)
	RevokeObjectFn func(address string)
}

func (s *ObjectStore) CreateObject(data []byte) (string, error) {
	return s.CreateObjectFn(data)
}

func (s *ObjectStore) RevokeObject(address string) {
	s.RevokeObjectFn(address)
}
