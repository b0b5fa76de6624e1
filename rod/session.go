package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docgrab"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Session implements docgrab.PageLocator at compile time.
var _ docgrab.PageLocator = (*Session)(nil)

// DefaultCloseGrace bounds how long Close waits for downloads in flight.
const DefaultCloseGrace = 30 * time.Second

// Session owns a headless Chrome browser and the single page the user is
// working with. The page loaded last is the active page context that
// save instructions are delivered to; files it saves land in the download
// directory.
//
// Session is safe for concurrent use.
type Session struct {
	browser    *rod.Browser
	launcher   *launcher.Launcher
	page       *rod.Page
	dir        string
	headless   bool
	downloads  Downloads
	stopEvents func()
	mu         sync.Mutex
	closed     atomic.Bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDownloadDir sets the directory the browser saves triggered
// downloads to. Without it the browser's own default is used.
func WithDownloadDir(dir string) SessionOption {
	return func(s *Session) {
		s.dir = dir
	}
}

// WithHeadless controls whether the browser window is hidden. Defaults to true.
func WithHeadless(headless bool) SessionOption {
	return func(s *Session) {
		s.headless = headless
	}
}

// NewSession launches a browser. Close must be called when the Session is
// no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{headless: true}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.launchBrowser(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load navigates the active page to url, creating the page on first use,
// waits for it to finish loading and returns the rendered HTML, including
// open shadow roots, along with the location the page settled on. Loads are
// serialized; the page loaded last stays active. A positive timeout bounds
// the load itself and starts once the session is free, so time spent
// queued behind other loads does not count against it.
func (s *Session) Load(ctx context.Context, url string, timeout time.Duration) (*docgrab.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() || s.browser == nil {
		return nil, docgrab.Errorf(docgrab.EINVALID, "browser session closed")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if s.page == nil {
		page, err := s.browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, err
		}
		s.page = page
	}

	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	res, err := page.Eval(serializeScript)
	if err != nil {
		return nil, err
	}
	doc := &docgrab.Document{
		Location: res.Value.Get("location").Str(),
		HTML:     res.Value.Get("html").Str(),
	}
	if doc.Location == "" {
		doc.Location = url
	}
	return doc, nil
}

// serializeScript returns the document's location and its HTML with open
// shadow roots inlined, so links rendered by web components are visible to
// scanning.
const serializeScript = `() => {
	const root = document.documentElement;
	let html = root.outerHTML;
	if (typeof root.getHTML === "function") {
		const shadowRoots = Array.from(root.querySelectorAll("*")).map(e => e.shadowRoot).filter(Boolean);
		html = "<html>" + root.getHTML({shadowRoots}) + "</html>";
	}
	return {location: document.location.href, html: html};
}`

// ActivePage returns the page loaded last.
// Returns ENOCONTEXT when nothing has been loaded or the session is closed.
func (s *Session) ActivePage(ctx context.Context) (docgrab.PageContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() || s.page == nil {
		return nil, docgrab.Errorf(docgrab.ENOCONTEXT, "no active page")
	}
	return &Tab{page: s.page, downloads: &s.downloads}, nil
}

// Close waits up to DefaultCloseGrace for downloads in flight, then
// releases browser resources. Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultCloseGrace)
	_ = s.downloads.Wait(ctx)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopEvents != nil {
		s.stopEvents()
		s.stopEvents = nil
	}
	s.page = nil
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	return err
}

// Downloads returns the tracker following this session's browser downloads.
func (s *Session) Downloads() *Downloads {
	return &s.downloads
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (s *Session) LauncherPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}

// launchBrowser starts the browser with stability flags, lets pages save
// files into the download directory without asking when one is set, and
// follows download events so saves can wait for their files.
func (s *Session) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(s.headless)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	behavior := proto.BrowserSetDownloadBehavior{
		Behavior:      proto.BrowserSetDownloadBehaviorBehaviorDefault,
		EventsEnabled: true,
	}
	if s.dir != "" {
		behavior.Behavior = proto.BrowserSetDownloadBehaviorBehaviorAllow
		behavior.DownloadPath = s.dir
	}
	if err := behavior.Call(browser); err != nil {
		_ = browser.Close()
		lnchr.Kill()
		return fmt.Errorf("setting download behavior: %w", err)
	}

	events, stop := browser.WithCancel()
	go events.EachEvent(
		func(e *proto.BrowserDownloadWillBegin) { s.downloads.Begin(e.GUID) },
		func(e *proto.BrowserDownloadProgress) { s.downloads.Progress(e.GUID, e.State) },
	)()

	s.stopEvents = stop
	s.browser = browser
	s.launcher = lnchr
	return nil
}
