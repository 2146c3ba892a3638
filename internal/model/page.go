package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// MaxPageSize is the maximum size of raw page content to keep in memory.
// Larger responses are truncated at read time. 10MB is generous for HTML
// while preventing memory exhaustion from unexpectedly large responses.
const MaxPageSize = 10 * 1024 * 1024 // 10 MB

// Page represents a single fetched document.
// It holds the response bytes together with the metadata the crawl engine,
// downloader, and report need.
//
// Design decision: We keep the raw bytes on the struct rather than streaming
// them because:
// 1. The extractor and the downloader both consume the same body
// 2. Bodies are bounded by MaxPageSize, so memory use is predictable
// 3. The hash allows change detection across crawl runs
type Page struct {
	// URL is the normalized URL the page was fetched from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type from the Content-Type header,
	// including any charset parameter. Empty when the header was absent.
	ContentType string `json:"content_type,omitempty"`

	// FetchedAt is the time the fetch completed.
	FetchedAt time.Time `json:"fetched_at"`

	// Size is the number of body bytes read (after truncation).
	Size int64 `json:"size"`

	// Hash is the SHA-256 hash of the body, hex encoded.
	// Used for change detection between crawl runs.
	Hash string `json:"hash,omitempty"`

	// Body contains the raw response bytes, capped at MaxPageSize.
	Body []byte `json:"-"` // Excluded from JSON to keep reports small
}

// ComputeHash calculates and sets the SHA-256 hash of the page body.
// Call after setting Body.
func (p *Page) ComputeHash() {
	if len(p.Body) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Body)
	p.Hash = hex.EncodeToString(hash[:])
}

// IsHTML reports whether the content type indicates an HTML document.
// Only the media type matters; charset and other parameters are ignored.
// Pages without a Content-Type header are treated as non-HTML.
func (p *Page) IsHTML() bool {
	mediaType, _, _ := strings.Cut(p.ContentType, ";")
	mediaType = strings.TrimSpace(mediaType)
	return strings.EqualFold(mediaType, "text/html") ||
		strings.EqualFold(mediaType, "application/xhtml+xml")
}

// IsImage reports whether the content type indicates an image.
func (p *Page) IsImage() bool {
	return len(p.ContentType) >= 6 && strings.EqualFold(p.ContentType[:6], "image/")
}
