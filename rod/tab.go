package rod

import (
	"context"

	"github.com/fwojciec/docgrab"
	"github.com/go-rod/rod"
)

// Ensure Tab implements docgrab.PageContext at compile time.
var _ docgrab.PageContext = (*Tab)(nil)

// saveScript runs inside the page. It saves the target through a temporary
// anchor carrying the download attribute, the same way a user click would.
const saveScript = `(url, filename) => {
	try {
		const body = document.body || document.documentElement;
		if (!body) {
			return {success: false, error: "no document body"};
		}
		const a = document.createElement("a");
		a.href = url;
		a.download = filename;
		a.style.display = "none";
		body.appendChild(a);
		a.click();
		body.removeChild(a);
		return {success: true};
	} catch (e) {
		return {success: false, error: String(e && e.message || e)};
	}
}`

// Tab is the script context of one browser page.
type Tab struct {
	page      *rod.Page
	downloads *Downloads
}

// Send evaluates the instruction inside the page and returns its
// acknowledgement. Unknown actions are declined without touching the page.
// A save is acknowledged once the browser reports its download finished;
// downloads that never start or are canceled are declined.
// Errors reaching the page are returned as-is.
func (t *Tab) Send(ctx context.Context, in docgrab.Instruction) (*docgrab.Ack, error) {
	if in.Action != docgrab.ActionSaveFile {
		return &docgrab.Ack{Success: false, Error: "unknown action " + in.Action}, nil
	}
	if t.page == nil {
		return nil, docgrab.Errorf(docgrab.ENOCONTEXT, "page closed")
	}

	var dl *Download
	if t.downloads != nil {
		dl = t.downloads.Expect()
	}

	res, err := t.page.Context(ctx).Eval(saveScript, in.URL, in.Filename)
	if err != nil {
		t.forget(dl)
		return nil, err
	}
	ack := &docgrab.Ack{
		Success: res.Value.Get("success").Bool(),
		Error:   res.Value.Get("error").Str(),
	}
	if !ack.Success || dl == nil {
		t.forget(dl)
		return ack, nil
	}

	if err := dl.Wait(ctx, DefaultDownloadStart); err != nil {
		t.forget(dl)
		if docgrab.ErrorCode(err) == docgrab.EDECLINED {
			return &docgrab.Ack{Success: false, Error: docgrab.ErrorMessage(err)}, nil
		}
		return nil, err
	}
	return ack, nil
}

func (t *Tab) forget(dl *Download) {
	if dl != nil {
		t.downloads.Forget(dl)
	}
}
