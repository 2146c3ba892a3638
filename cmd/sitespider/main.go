// Package main provides the entry point for the sitespider CLI.
//
// sitespider is a recursive site crawler. Starting from a seed URL it
// discovers every linked URL, optionally mirrors the fetched files to
// disk, and exports the discovered URL sets.
//
// Usage:
//
//	sitespider crawl <url>
//	sitespider history [host]
//
// See --help for all available options.
package main

// main is the entry point for sitespider.
func main() {
	Execute()
}
