package crawler

import "errors"

// Normalization errors.
// These are returned by Normalize and checked with errors.Is. A failed
// normalization drops the offending reference; it never aborts a crawl.
var (
	// ErrInvalidURL is returned when a string is not a valid URL reference:
	// malformed syntax, an empty host after resolution, or a relative
	// reference with no base to resolve against.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnsupportedScheme is returned for URLs whose scheme is neither
	// http nor https. References such as mailto: or javascript: links
	// reach this path when they slip past the extractor.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)
