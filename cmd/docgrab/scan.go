package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/docgrab"
	"golang.org/x/sync/errgroup"
)

// internalPrefixes are browser-internal pages that cannot be scanned.
var internalPrefixes = []string{"chrome://", "chrome-extension://", "edge://", "about:"}

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	pages, err := scanPages(deps, c.URLs, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}

	for i, refs := range pages {
		if c.Sizes {
			refs = withSizes(deps, refs)
		}
		if len(pages) > 1 {
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "# %s\n", c.URLs[i])
		}
		printReferences(deps.Stdout, refs, deps.Preferences.Extension, c.URLs[i])
	}
	return nil
}

// scanPages fetches and scans every page, at most concurrency at a time.
// Results are returned in input order. The first failing page aborts
// the scan.
func scanPages(deps *Dependencies, urls []string, concurrency int) ([][]docgrab.Reference, error) {
	for _, u := range urls {
		if err := checkScannable(u); err != nil {
			return nil, err
		}
	}

	if concurrency < 1 {
		concurrency = 1
	}
	results := make([][]docgrab.Reference, len(urls))
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			doc, err := deps.Fetcher.Fetch(ctx, u)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", u, err)
			}
			results[i] = deps.Extractor.ExtractReferences(doc.HTML, doc.Location)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkScannable rejects browser-internal pages before any fetch.
func checkScannable(rawURL string) error {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	for _, p := range internalPrefixes {
		if strings.HasPrefix(lower, p) {
			return docgrab.Errorf(docgrab.EINVALID, "cannot scan browser page %s", rawURL)
		}
	}
	return nil
}

// withSizes returns copies of refs with sizes filled in where the server
// reports them.
func withSizes(deps *Dependencies, refs []docgrab.Reference) []docgrab.Reference {
	if deps.Sizer == nil {
		return refs
	}
	sized := make([]docgrab.Reference, len(refs))
	for i, ref := range refs {
		if size, err := deps.Sizer.Size(deps.Ctx, ref.URL); err == nil {
			ref.Size = &size
		}
		sized[i] = ref
	}
	return sized
}

func printReferences(w io.Writer, refs []docgrab.Reference, ext, location string) {
	if len(refs) == 0 {
		kind := strings.ToUpper(strings.TrimPrefix(docgrab.NormalizeExtension(ext), "."))
		fmt.Fprintf(w, "No %s files found on %s\n", kind, location)
		return
	}
	for i, ref := range refs {
		line := fmt.Sprintf("%3d  %s  %s", i+1, ref.Filename, ref.URL)
		if ref.Size != nil {
			line += "  " + formatSize(*ref.Size)
		}
		fmt.Fprintln(w, line)
	}
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
