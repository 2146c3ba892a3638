// Package fetch implements the HTTP side of the crawler: client
// construction (optionally through a SOCKS5 proxy), the Fetcher that
// turns a URL into a model.Page, and the robots.txt gate.
//
// The crawl engine consumes this package through small interfaces, so
// everything here can be swapped for fakes in tests.
package fetch
