package docgrab

import "context"

// Document is a fetched page. Location is where the content was actually
// served from after redirects; relative references resolve against it.
type Document struct {
	Location string
	HTML     string
}

// Fetcher retrieves the HTML of a page so it can be scanned for references.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch loads the URL and returns the document it ended up at.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Document, error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
