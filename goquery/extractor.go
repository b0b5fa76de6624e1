// Package goquery implements docgrab.ReferenceExtractor on top of goquery.
package goquery

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docgrab"
)

// Ensure Extractor implements docgrab.ReferenceExtractor at compile time.
var _ docgrab.ReferenceExtractor = (*Extractor)(nil)

// Extractor finds document references in HTML. It scans anchors first,
// then embedded content (iframe, frame, embed, object), and finally, for
// file:// pages without any match, the raw links of a directory listing.
type Extractor struct {
	ext    string
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithExtension sets the target extension. Defaults to docgrab.DefaultExtension.
func WithExtension(ext string) Option {
	return func(e *Extractor) {
		e.ext = docgrab.NormalizeExtension(ext)
	}
}

// WithLogger sets the logger used for skipped-element diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		ext:    docgrab.DefaultExtension,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extension returns the target extension.
func (e *Extractor) Extension() string {
	return e.ext
}

// ExtractReferences scans html for references to documents with the
// target extension. location is the page's own URL; relative addresses
// are resolved against it.
func (e *Extractor) ExtractReferences(html string, location string) []docgrab.Reference {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Debug("skip document", "location", location, "err", err)
		return nil
	}

	base, err := url.Parse(location)
	if err != nil {
		e.logger.Debug("unparseable location", "location", location, "err", err)
		base = &url.URL{}
	}

	s := &scan{ext: e.ext, base: base, seen: make(map[string]bool), logger: e.logger}
	s.anchors(doc)
	s.embeds(doc)
	if strings.EqualFold(base.Scheme, "file") && len(s.refs) == 0 {
		s.listing(doc)
	}
	return s.refs
}

// scan accumulates references for one ExtractReferences call.
type scan struct {
	ext    string
	base   *url.URL
	seen   map[string]bool
	refs   []docgrab.Reference
	logger *slog.Logger
}

func (s *scan) anchors(doc *goquery.Document) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		u, err := s.resolve(href)
		if err != nil {
			if strings.Contains(strings.ToLower(href), s.ext) {
				s.skip("anchor", href, err)
			}
			return
		}
		if !matchesExtension(u, s.ext) {
			return
		}

		text := strings.TrimSpace(sel.Text())
		s.add(u.String(), docgrab.Reference{
			URL:      u.String(),
			Filename: pickFilename(docgrab.FilenameFromURL(u.String(), s.ext), text, "document"+s.ext),
			LinkText: text,
		})
	})
}

func (s *scan) embeds(doc *goquery.Document) {
	label := "Embedded " + strings.ToUpper(strings.TrimPrefix(s.ext, "."))
	doc.Find("iframe[src], frame[src], embed[src], object[data]").Each(func(_ int, sel *goquery.Selection) {
		attr := "src"
		if goquery.NodeName(sel) == "object" {
			attr = "data"
		}
		src, _ := sel.Attr(attr)
		if !strings.Contains(src, s.ext) {
			return
		}
		u, err := s.resolve(src)
		if err != nil {
			s.skip(goquery.NodeName(sel), src, err)
			return
		}
		if !strings.Contains(u.String(), s.ext) {
			return
		}

		s.add(u.String(), docgrab.Reference{
			URL:      u.String(),
			Filename: pickFilename(docgrab.FilenameFromURL(u.String(), s.ext), "embedded"+s.ext),
			LinkText: label,
		})
	})
}

// listing matches links of a local directory listing by raw attribute
// value, since listings may not carry resolvable URLs.
func (s *scan) listing(doc *goquery.Document) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), s.ext) {
			return
		}
		name, err := url.PathUnescape(href)
		if err != nil {
			s.skip("listing", href, docgrab.Errorf(docgrab.ESCAN, "undecodable name: %v", err))
			return
		}
		u, err := s.resolve(href)
		if err != nil {
			s.skip("listing", href, err)
			return
		}

		text := strings.TrimSpace(sel.Text())
		if text == "" {
			text = href
		}
		s.add(u.String(), docgrab.Reference{
			URL:      u.String(),
			Filename: pickFilename(name, "document"+s.ext),
			LinkText: text,
		})
	})
}

func (s *scan) add(key string, ref docgrab.Reference) {
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.refs = append(s.refs, ref)
}

func (s *scan) skip(element, value string, err error) {
	s.logger.Debug("skip element",
		"element", element,
		"value", value,
		"err", docgrab.ErrorMessage(err),
	)
}

// resolve resolves a raw attribute value against the page location and
// accepts only http, https and file results.
func (s *scan) resolve(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, docgrab.Errorf(docgrab.ESCAN, "empty address")
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, docgrab.Errorf(docgrab.ESCAN, "invalid address: %v", err)
	}
	u := s.base.ResolveReference(ref)
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "file":
		return u, nil
	}
	return nil, docgrab.Errorf(docgrab.ESCAN, "unsupported scheme %q", u.Scheme)
}

// matchesExtension reports whether u points at a document with ext: its
// path ends in ext, or ext is followed by a query or fragment delimiter.
func matchesExtension(u *url.URL, ext string) bool {
	if strings.HasSuffix(u.Path, ext) {
		return true
	}
	s := u.String()
	return strings.Contains(s, ext+"?") || strings.Contains(s, ext+"#")
}

// pickFilename returns the first candidate that is non-empty after sanitizing.
func pickFilename(candidates ...string) string {
	for _, c := range candidates {
		if name := docgrab.SanitizeFilename(c); name != "" {
			return name
		}
	}
	return ""
}
