package rod

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/docgrab"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultDownloadStart bounds how long a save waits for the browser to
// report that its download has begun.
const DefaultDownloadStart = 10 * time.Second

// Downloads follows browser downloads by GUID. Saves register with Expect
// before triggering a download; the next download the browser begins is
// bound to the oldest registration. Downloads nobody expected are tracked
// too, so Wait covers every transfer still in flight.
//
// Downloads is safe for concurrent use. The zero value is ready to use.
type Downloads struct {
	mu       sync.Mutex
	expected []*Download
	active   map[string]*Download
}

// Download is one browser download, from registration to completion.
type Download struct {
	begun chan struct{}
	done  chan struct{}
	guid  string
	state proto.BrowserDownloadProgressState
}

func newDownload() *Download {
	return &Download{begun: make(chan struct{}), done: make(chan struct{})}
}

// Expect registers interest in the next download the browser begins.
func (d *Downloads) Expect() *Download {
	dl := newDownload()
	d.mu.Lock()
	d.expected = append(d.expected, dl)
	d.mu.Unlock()
	return dl
}

// Forget drops a registration whose download was never triggered.
func (d *Downloads) Forget(dl *Download) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.expected {
		if e == dl {
			d.expected = append(d.expected[:i], d.expected[i+1:]...)
			return
		}
	}
}

// Begin records that the browser started the download identified by guid.
func (d *Downloads) Begin(guid string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var dl *Download
	if len(d.expected) > 0 {
		dl = d.expected[0]
		d.expected = d.expected[1:]
	} else {
		dl = newDownload()
	}
	dl.guid = guid
	if d.active == nil {
		d.active = make(map[string]*Download)
	}
	d.active[guid] = dl
	close(dl.begun)
}

// Progress records a state change of the download identified by guid.
// Completed and canceled downloads are finished; other states are ignored.
func (d *Downloads) Progress(guid string, state proto.BrowserDownloadProgressState) {
	if state != proto.BrowserDownloadProgressStateCompleted && state != proto.BrowserDownloadProgressStateCanceled {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	dl, ok := d.active[guid]
	if !ok {
		return
	}
	delete(d.active, guid)
	dl.state = state
	close(dl.done)
}

// Pending returns the number of downloads begun but not finished.
func (d *Downloads) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.active)
}

// Wait blocks until every download begun so far has finished or ctx ends.
func (d *Downloads) Wait(ctx context.Context) error {
	d.mu.Lock()
	inflight := make([]*Download, 0, len(d.active))
	for _, dl := range d.active {
		inflight = append(inflight, dl)
	}
	d.mu.Unlock()

	for _, dl := range inflight {
		select {
		case <-dl.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Wait blocks until the download has begun and finished. It returns
// EDECLINED when the browser never starts the download within start or
// cancels it.
func (dl *Download) Wait(ctx context.Context, start time.Duration) error {
	timer := time.NewTimer(start)
	defer timer.Stop()

	select {
	case <-dl.begun:
	case <-timer.C:
		return docgrab.Errorf(docgrab.EDECLINED, "download did not start within %s", start)
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-dl.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if dl.state == proto.BrowserDownloadProgressStateCanceled {
		return docgrab.Errorf(docgrab.EDECLINED, "download canceled")
	}
	return nil
}
