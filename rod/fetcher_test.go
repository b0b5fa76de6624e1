//go:build integration

package rod_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T, opts ...rod.FetcherOption) (*rod.Fetcher, *rod.Session) {
	t.Helper()

	session, err := rod.NewSession(rod.WithDownloadDir(t.TempDir()))
	require.NoError(t, err)
	fetcher := rod.NewFetcher(session, opts...)
	t.Cleanup(func() { _ = fetcher.Close() })
	return fetcher, session
}

func TestFetcher_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {}
	}))
	defer srv.Close()

	fetcher, _ := newFetcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').innerHTML = '<a href="/late.pdf">Rendered</a>';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher, _ := newFetcher(t)

	doc, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, doc.HTML, `href="/late.pdf"`)
	assert.NotContains(t, doc.HTML, "Loading...")
}

func TestFetcher_Fetch_ReportsRedirectedLocation(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/papers", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/papers/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/papers/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="a.pdf">A</a></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher, _ := newFetcher(t)

	doc, err := fetcher.Fetch(context.Background(), srv.URL+"/papers")

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/papers/", doc.Location)
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	fetcher, _ := newFetcher(t, rod.WithFetchTimeout(100*time.Millisecond))

	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetcher_Fetch_TimeoutExcludesQueuedLoads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(400 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>slow</body></html>`))
	}))
	defer srv.Close()

	// Each load fits the timeout; the three together do not.
	fetcher, _ := newFetcher(t, rod.WithFetchTimeout(time.Second))
	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fetcher.Fetch(context.Background(), fmt.Sprintf("%s/page%d", srv.URL, i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "load %d", i)
	}
}

func TestFetcher_Close_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher, _ := newFetcher(t)

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())
}

func TestFetcher_Fetch_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	fetcher, _ := newFetcher(t)
	require.NoError(t, fetcher.Close())

	_, err := fetcher.Fetch(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, docgrab.EINVALID, docgrab.ErrorCode(err))
	assert.Contains(t, docgrab.ErrorMessage(err), "closed")
}

func TestFetcher_Fetch_SerializesShadowDOMContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<doc-list></doc-list>
<script>
class DocList extends HTMLElement {
  constructor() {
    super();
    const shadow = this.attachShadow({mode: 'open'});
    shadow.innerHTML = '<a href="/a.pdf" data-shadow-content="true">A</a><a href="/b.pdf" data-shadow-content="true">B</a>';
  }
}
customElements.define('doc-list', DocList);
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher, _ := newFetcher(t)

	doc, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	html := doc.HTML
	// Twice in the script source, twice more once the shadow root is inlined.
	markerCount := strings.Count(html, `data-shadow-content="true"`)
	assert.Greater(t, markerCount, 2, "shadow DOM content not serialized: marker found %d times", markerCount)
}

func TestSession_ActivePage_SavesIntoDownloadDir(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/a.pdf">a</a></body></html>`))
	})
	mux.HandleFunc("/a.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	session, err := rod.NewSession(rod.WithDownloadDir(dir))
	require.NoError(t, err)
	defer session.Close()

	_, err = session.Load(context.Background(), srv.URL, 0)
	require.NoError(t, err)

	page, err := session.ActivePage(context.Background())
	require.NoError(t, err)

	ack, err := page.Send(context.Background(), docgrab.Instruction{
		Action:   docgrab.ActionSaveFile,
		URL:      srv.URL + "/a.pdf",
		Filename: "saved.pdf",
	})
	require.NoError(t, err)
	require.True(t, ack.Success, ack.Error)

	// Acknowledged saves have finished writing.
	data, err := os.ReadFile(filepath.Join(dir, "saved.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Zero(t, session.Downloads().Pending())
}
