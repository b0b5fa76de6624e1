package main_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/docgrab"
	main "github.com/fwojciec/docgrab/cmd/docgrab"
	"github.com/fwojciec/docgrab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageExtractor returns one reference per page, named after the page.
func pageExtractor() *mock.ReferenceExtractor {
	return &mock.ReferenceExtractor{
		ExtractReferencesFn: func(html, location string) []docgrab.Reference {
			if html == "" {
				return nil
			}
			return []docgrab.Reference{{URL: location + "/" + html, Filename: html}}
		},
	}
}

func TestScanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists references with indexes", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*docgrab.Document, error) {
				return &docgrab.Document{Location: url, HTML: "<html></html>"}, nil
			},
		}
		deps.Extractor = &mock.ReferenceExtractor{
			ExtractReferencesFn: func(_, location string) []docgrab.Reference {
				assert.Equal(t, "https://example.com/papers", location)
				return []docgrab.Reference{
					{URL: "https://example.com/a.pdf", Filename: "a.pdf"},
					{URL: "https://example.com/b.pdf", Filename: "b.pdf"},
				}
			},
		}

		err := (&main.ScanCmd{URLs: []string{"https://example.com/papers"}, Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "  1  a.pdf  https://example.com/a.pdf\n  2  b.pdf  https://example.com/b.pdf\n", stdout.String())
	})

	t.Run("resolves references against the location the page settled on", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*docgrab.Document, error) {
				return &docgrab.Document{Location: url + "/", HTML: "<html></html>"}, nil
			},
		}
		var got string
		deps.Extractor = &mock.ReferenceExtractor{
			ExtractReferencesFn: func(_, location string) []docgrab.Reference {
				got = location
				return nil
			},
		}

		err := (&main.ScanCmd{URLs: []string{"https://example.com/papers"}, Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/papers/", got)
	})

	t.Run("says so when nothing is found", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Preferences.Extension = ".epub"
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*docgrab.Document, error) {
				return &docgrab.Document{Location: url}, nil
			},
		}
		deps.Extractor = pageExtractor()

		err := (&main.ScanCmd{URLs: []string{"https://example.com/"}, Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "No EPUB files found on https://example.com/\n", stdout.String())
	})

	t.Run("keeps page order when scanning concurrently", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		fetched := map[string]int{}
		deps, stdout, _ := newDeps()
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*docgrab.Document, error) {
				mu.Lock()
				fetched[url]++
				mu.Unlock()
				return &docgrab.Document{Location: url, HTML: strings.TrimPrefix(url, "https://") + ".pdf"}, nil
			},
		}
		deps.Extractor = pageExtractor()
		urls := []string{"https://one", "https://two", "https://three"}

		err := (&main.ScanCmd{URLs: urls, Concurrency: 3}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Less(t, strings.Index(out, "# https://one"), strings.Index(out, "# https://two"))
		assert.Less(t, strings.Index(out, "# https://two"), strings.Index(out, "# https://three"))
		assert.Contains(t, out, "two.pdf  https://two/two.pdf")
		for _, u := range urls {
			assert.Equal(t, 1, fetched[u])
		}
	})

	t.Run("refuses browser-internal pages before fetching", func(t *testing.T) {
		t.Parallel()

		for _, u := range []string{"chrome://settings", "edge://flags", "about:blank", "CHROME://history"} {
			deps, _, stderr := newDeps()
			deps.Fetcher = &mock.Fetcher{
				FetchFn: func(context.Context, string) (*docgrab.Document, error) {
					t.Error("fetch must not be called")
					return nil, errors.New("unexpected fetch")
				},
			}
			deps.Extractor = pageExtractor()

			err := (&main.ScanCmd{URLs: []string{"https://example.com", u}, Concurrency: 1}).Run(deps)

			assert.Equal(t, docgrab.EINVALID, docgrab.ErrorCode(err), u)
			assert.Contains(t, stderr.String(), "cannot scan browser page")
		}
	})

	t.Run("reports fetch failures", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(context.Context, string) (*docgrab.Document, error) {
				return nil, errors.New("connection refused")
			},
		}
		deps.Extractor = pageExtractor()

		err := (&main.ScanCmd{URLs: []string{"https://example.com"}, Concurrency: 1}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("shows sizes when asked", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*docgrab.Document, error) {
				return &docgrab.Document{Location: url, HTML: "<html></html>"}, nil
			},
		}
		deps.Extractor = &mock.ReferenceExtractor{
			ExtractReferencesFn: func(string, string) []docgrab.Reference {
				return []docgrab.Reference{
					{URL: "https://example.com/a.pdf", Filename: "a.pdf"},
					{URL: "https://example.com/b.pdf", Filename: "b.pdf"},
				}
			},
		}
		deps.Sizer = sizer{"https://example.com/a.pdf": 2048}

		err := (&main.ScanCmd{URLs: []string{"https://example.com"}, Sizes: true, Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "  1  a.pdf  https://example.com/a.pdf  2.0 KB\n  2  b.pdf  https://example.com/b.pdf\n", stdout.String())
	})
}
