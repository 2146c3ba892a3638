package crawler

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skippedSchemes are reference prefixes that never point at fetchable
// documents. They are dropped at extraction time rather than left for
// normalization to reject, to keep the noise out of debug logs.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Extract parses an HTML document and returns the raw link and resource
// references it contains: anchor targets, image sources, script sources,
// stylesheet and other link references, and iframe/source elements.
// References are returned verbatim, in document order; resolving them
// against the page URL is the caller's job.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//
// Malformed markup degrades gracefully: the parser error-corrects, and
// a document that cannot be parsed at all yields no references rather
// than an error. Extraction never aborts a crawl.
func Extract(r io.Reader) []string {
	doc, err := html.Parse(r)
	if err != nil {
		// html.Parse only fails on reader errors; treat as an empty page
		return nil
	}

	refs := make([]string, 0)

	// Walk the DOM tree
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if ref := elementRef(n); ref != "" {
				refs = append(refs, ref)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return refs
}

// elementRef returns the reference carried by an element, or "" when the
// element has none worth following. Scripts are never executed; only
// literal attribute values are read.
func elementRef(n *html.Node) string {
	var raw string
	switch n.Data {
	case "a", "link":
		raw = getAttr(n, "href")
	case "img", "script", "iframe", "source":
		raw = getAttr(n, "src")
	default:
		return ""
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "#" {
		return ""
	}
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(raw, scheme) {
			return ""
		}
	}
	return raw
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
