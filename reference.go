package docgrab

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Reference is a discovered candidate document resource before retrieval.
// References are values; once created they are never modified.
type Reference struct {
	// URL is the absolute address of the resource. It is unique within
	// one discovery pass.
	URL string `json:"url"`

	// Filename is the sanitized, non-empty name suggested for storage.
	Filename string `json:"filename"`

	// LinkText is the visible text of the element the reference came from.
	LinkText string `json:"linkText"`

	// Size is the resource size in bytes, or nil when unknown.
	Size *int64 `json:"size"`
}

// ReferenceExtractor finds candidate document references in a page.
type ReferenceExtractor interface {
	// ExtractReferences scans the HTML of a page located at location and
	// returns references deduplicated by absolute URL, in discovery order.
	// Malformed elements are skipped; extraction never fails as a whole.
	ExtractReferences(html string, location string) []Reference
}

// Origin classifies where a reference's bytes are served from.
type Origin int

// Origin values.
const (
	OriginNetwork Origin = iota + 1
	OriginLocal
)

// String returns the origin's name.
func (o Origin) String() string {
	switch o {
	case OriginNetwork:
		return "network"
	case OriginLocal:
		return "local"
	}
	return "unknown"
}

// ClassifyOrigin returns the origin of rawURL based on its scheme.
// Returns EINVALID for unparseable URLs and unsupported schemes.
func ClassifyOrigin(rawURL string) (Origin, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return OriginNetwork, nil
	case "file":
		return OriginLocal, nil
	}
	return 0, Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
}

// reservedChars are replaced by SanitizeFilename.
const reservedChars = `<>:"/\|?*`

// SanitizeFilename maps an arbitrary name to a filesystem-safe one.
// Reserved characters become "_", leading dots are removed and surrounding
// whitespace is trimmed. SanitizeFilename is idempotent.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(reservedChars, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimLeftFunc(name, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
	return strings.TrimRightFunc(name, unicode.IsSpace)
}

// NormalizeExtension returns ext in lower case with a leading dot.
// An empty ext yields DefaultExtension.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// FilenameFromURL returns the percent-decoded last path segment of rawURL.
// When rawURL cannot be parsed it falls back to the first path segment
// ending in ext. Returns "" when no name can be derived.
func FilenameFromURL(rawURL, ext string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return filenameByPattern(rawURL, ext)
	}
	path := u.EscapedPath()
	if path == "" {
		// Opaque file URLs such as file:x.pdf carry their path in Opaque.
		path = u.Opaque
	}
	segment := path[strings.LastIndex(path, "/")+1:]
	if segment == "" {
		return ""
	}
	name, err := url.PathUnescape(segment)
	if err != nil {
		return ""
	}
	return name
}

func filenameByPattern(rawURL, ext string) string {
	re, err := regexp.Compile(`(?i)/([^/?#]+` + regexp.QuoteMeta(ext) + `)`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	name, err := url.PathUnescape(m[1])
	if err != nil {
		return m[1]
	}
	return name
}

// DefaultFilename returns the name used when nothing better is known,
// e.g. "document.pdf".
func DefaultFilename(ext string) string {
	return "document" + NormalizeExtension(ext)
}

// ReferenceFromURL builds a reference for a URL supplied directly by an
// initiating surface rather than discovered on a page.
func ReferenceFromURL(rawURL, ext string) (Reference, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Reference{}, Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() {
		return Reference{}, Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}
	filename := SanitizeFilename(FilenameFromURL(u.String(), NormalizeExtension(ext)))
	if filename == "" {
		filename = DefaultFilename(ext)
	}
	return Reference{
		URL:      u.String(),
		Filename: filename,
		LinkText: u.String(),
	}, nil
}
