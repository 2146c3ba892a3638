// Package crawler provides the recursive crawl engine.
//
// # Architecture
//
// The package is designed around the Engine type, which drives a pool of
// fetch workers against a shared Frontier until the site graph is
// exhausted. The Frontier owns URL deduplication and status tracking;
// workers claim URLs from it, fetch them, extract new references, and
// feed discoveries back.
//
// Design decision: We implement our own engine rather than using a
// third-party crawling framework because:
//  1. The frontier semantics (record-but-never-fetch, status snapshots
//     for export) are specific to this tool
//  2. We need tight control over global request pacing
//  3. Termination must be exact global quiescence, not a depth heuristic
//
// # Components
//
//   - Engine: coordinates workers, classification, and collection
//   - Frontier: URL states with atomic claim and quiescence detection
//   - Classifier: internal/external/excluded scope decisions
//   - Normalize: canonicalizes URLs for deduplication
//   - Extract: pulls link and resource references out of HTML
//
// # Termination
//
// A crawl ends when the Frontier reaches quiescence: no pending URLs
// and no worker holding an in-flight URL. Workers block on the Frontier
// rather than polling; the last worker to finish a URL wakes the rest
// so they can observe quiescence and exit.
//
// # Usage
//
//	seed, err := crawler.Normalize("https://example.com", nil)
//	if err != nil { ... }
//	engine := crawler.NewEngine(seed, fetcher, crawler.WithWorkers(4))
//	report, err := engine.Run(ctx)
package crawler
