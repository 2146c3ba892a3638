package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize canonicalizes a raw URL reference into a comparable form
// safe for equality-based deduplication. Relative references (./x, /x,
// x, protocol-relative //host/x) are resolved against base; absolute
// references ignore it. A relative reference with a nil base fails.
//
// The canonical form:
//   - drops the fragment, since it never changes the fetched content
//   - keeps the query, since it can change the fetched content
//   - lower-cases scheme and host (case-insensitive per URL semantics)
//   - leaves path and query casing alone (servers may be case-sensitive)
//   - represents an empty path as "/"
//
// Design decision: Normalize returns *url.URL rather than a string so
// callers can inspect components (host, path) without re-parsing. The
// string key for deduplication is the URL's String() form.
func Normalize(raw string, base *url.URL) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrInvalidURL)
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	u := ref
	if base != nil {
		u = base.ResolveReference(ref)
	} else if !ref.IsAbs() {
		return nil, fmt.Errorf("%w: relative reference %q without base", ErrInvalidURL, raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	u.Host = strings.ToLower(u.Host)
	if u.Host == "" {
		return nil, fmt.Errorf("%w: empty host in %q", ErrInvalidURL, raw)
	}

	u.Fragment = ""
	u.RawFragment = ""

	// http://example.com and http://example.com/ are the same resource
	if u.Path == "" {
		u.Path = "/"
	}

	return u, nil
}
