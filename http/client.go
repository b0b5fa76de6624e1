package http

import (
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
)

// NewClient returns an HTTP client that also serves file:// URLs from the
// local filesystem and keeps cookies between requests, so that documents
// behind a session set by the scanned page can be retrieved.
func NewClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	// cookiejar.New only fails for invalid options.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &http.Client{
		Transport: transport,
		Jar:       jar,
	}
}
