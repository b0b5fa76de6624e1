// Package fs provides the file-based transfer collaborator.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docgrab"
	"github.com/google/uuid"
)

// maxUniquifyAttempts bounds the search for a free " (n)" name.
const maxUniquifyAttempts = 10000

// Ensure Downloader implements docgrab.Transferer at compile time.
var _ docgrab.Transferer = (*Downloader)(nil)

// Downloader implements docgrab.Transferer by streaming a source into a
// temporary file in the target directory and moving it into place once
// complete, so a partial download never occupies a final name.
type Downloader struct {
	dir     string
	openers map[string]docgrab.Opener
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithOpener registers the opener used for sources with the given URL scheme.
func WithOpener(scheme string, o docgrab.Opener) Option {
	return func(d *Downloader) {
		d.openers[strings.ToLower(scheme)] = o
	}
}

// NewDownloader creates a new Downloader that saves files into dir.
func NewDownloader(dir string, opts ...Option) *Downloader {
	d := &Downloader{
		dir:     dir,
		openers: make(map[string]docgrab.Opener),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the target directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// Submit saves the bytes behind req.Source as req.Filename in the target
// directory, applying the conflict policy.
func (d *Downloader) Submit(ctx context.Context, req docgrab.TransferRequest) (*docgrab.Transfer, error) {
	if req.Prompt {
		return nil, docgrab.Errorf(docgrab.EINVALID, "interactive save is not supported")
	}
	if err := validateFilename(req.Filename); err != nil {
		return nil, err
	}

	u, err := url.Parse(req.Source)
	if err != nil {
		return nil, docgrab.Errorf(docgrab.EINVALID, "invalid source %q: %v", req.Source, err)
	}
	opener, ok := d.openers[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, docgrab.Errorf(docgrab.ETRANSFER, "no opener for %q sources", u.Scheme)
	}

	rc, err := opener.Open(ctx, req.Source)
	if err != nil {
		if docgrab.ErrorCode(err) == docgrab.EINTERNAL {
			return nil, docgrab.Errorf(docgrab.ETRANSFER, "opening %s: %v", req.Source, err)
		}
		return nil, err
	}
	defer rc.Close()

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return nil, docgrab.Errorf(docgrab.ETRANSFER, "creating %s: %v", d.dir, err)
	}

	tmp, err := os.CreateTemp(d.dir, ".docgrab-*.part")
	if err != nil {
		return nil, docgrab.Errorf(docgrab.ETRANSFER, "creating temporary file: %v", err)
	}
	tmpName := tmp.Name()

	h := xxhash.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), rc)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return nil, docgrab.Errorf(docgrab.ETRANSFER, "writing %s: %v", req.Filename, err)
	}

	path, err := d.place(tmpName, req.Filename, req.Conflict)
	if err != nil {
		_ = os.Remove(tmpName)
		return nil, docgrab.Errorf(docgrab.ETRANSFER, "saving %s: %v", req.Filename, err)
	}

	return &docgrab.Transfer{
		ID:       uuid.New().String(),
		Path:     path,
		Bytes:    n,
		Checksum: h.Sum64(),
	}, nil
}

// place moves the completed temporary file to its final name.
func (d *Downloader) place(tmpName, filename string, policy docgrab.ConflictPolicy) (string, error) {
	switch policy {
	case docgrab.ConflictOverwrite:
		target := filepath.Join(d.dir, filename)
		return target, os.Rename(tmpName, target)
	case docgrab.ConflictUniquify:
		for i := 0; i < maxUniquifyAttempts; i++ {
			target := filepath.Join(d.dir, UniqueName(filename, i))
			// Reserve the name first so a concurrent writer cannot claim it.
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
			if errors.Is(err, os.ErrExist) {
				continue
			} else if err != nil {
				return "", err
			}
			f.Close()
			return target, os.Rename(tmpName, target)
		}
		return "", fmt.Errorf("no free name for %s", filename)
	}
	return "", fmt.Errorf("unknown conflict policy %d", policy)
}

// UniqueName returns filename for n == 0 and otherwise inserts " (n)"
// before the extension: "a.pdf" becomes "a (1).pdf".
func UniqueName(filename string, n int) string {
	if n == 0 {
		return filename
	}
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}

func validateFilename(name string) error {
	if name == "" {
		return docgrab.Errorf(docgrab.EINVALID, "filename required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return docgrab.Errorf(docgrab.EINVALID, "filename %q must not contain a path", name)
	}
	return nil
}
