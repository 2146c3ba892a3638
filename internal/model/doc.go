// Package model defines the core data structures used throughout sitespider.
//
// This package contains the following main types:
//   - Status: The lifecycle state of a URL in the crawl frontier
//   - Page: A fetched document (response bytes plus metadata)
//   - CrawlReport: The final result of a crawl run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, download, report, database) need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
