package crawler

import (
	"net/url"
	"strings"
)

// Classification is the scope judgment for a normalized URL.
type Classification int

const (
	// ClassInternal marks a URL on the same host as the seed.
	ClassInternal Classification = iota

	// ClassExternal marks a URL on a different host than the seed.
	ClassExternal

	// ClassExcluded marks a URL barred from fetching by the length limit
	// or an exclusion prefix, regardless of its host.
	ClassExcluded
)

// String returns a human-readable classification name.
func (c Classification) String() string {
	switch c {
	case ClassInternal:
		return "internal"
	case ClassExternal:
		return "external"
	case ClassExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Classifier decides whether a normalized URL is internal, external, or
// excluded. It is a pure function of its configuration: the same URL
// always yields the same classification.
//
// The checks run in a fixed order: length, then exclusion prefixes, then
// host. A URL at or beyond the length limit is excluded even when its
// path also matches a prefix or its host differs from the seed, so the
// cheapest check settles pathological URLs first and the outcome never
// depends on evaluation order.
type Classifier struct {
	// seedHost is the host (including port, if any) URLs are compared
	// against. Comparison is case-insensitive.
	seedHost string

	// maxURLLength excludes any URL whose serialized form is at or
	// beyond this length. The boundary is inclusive.
	maxURLLength int

	// excludePrefixes are case-sensitive path prefixes that bar a URL
	// from fetching.
	excludePrefixes []string
}

// NewClassifier creates a Classifier for the given seed host.
func NewClassifier(seedHost string, maxURLLength int, excludePrefixes []string) *Classifier {
	return &Classifier{
		seedHost:        seedHost,
		maxURLLength:    maxURLLength,
		excludePrefixes: excludePrefixes,
	}
}

// Classify returns the scope judgment for a normalized URL.
func (c *Classifier) Classify(u *url.URL) Classification {
	// A URL of exactly maxURLLength is excluded; one character shorter
	// is not excluded on that basis alone.
	if c.maxURLLength > 0 && len(u.String()) >= c.maxURLLength {
		return ClassExcluded
	}

	for _, prefix := range c.excludePrefixes {
		if strings.HasPrefix(u.Path, prefix) {
			return ClassExcluded
		}
	}

	if strings.EqualFold(u.Host, c.seedHost) {
		return ClassInternal
	}
	return ClassExternal
}
