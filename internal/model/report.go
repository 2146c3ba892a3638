package model

import (
	"sort"
	"time"
)

// CrawlReport is the final result of a crawl run.
// It contains the discovered URL sets, counters, and any per-URL failures.
//
// Design decision: We use a single flat struct rather than nesting
// sub-reports because the crawl produces one homogeneous kind of data
// (URLs and their outcomes). This keeps JSON output and database storage
// straightforward.
type CrawlReport struct {
	// Seed is the normalized URL the crawl started from.
	Seed string `json:"seed"`

	// SeedHost is the host component of the seed, the reference point
	// for internal/external classification.
	SeedHost string `json:"seed_host"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl reached quiescence or was interrupted.
	FinishedAt time.Time `json:"finished_at"`

	// Interrupted is true when the crawl was cancelled before quiescence.
	// The URL sets then hold whatever was gathered up to that point.
	Interrupted bool `json:"interrupted"`

	// URLs contains every discovered URL, sorted lexicographically.
	// This includes URLs that were never fetched (rejected or excluded).
	URLs []string `json:"urls"`

	// InternalURLs contains discovered URLs on the seed host, sorted.
	InternalURLs []string `json:"internal_urls"`

	// ExternalURLs contains discovered URLs on other hosts, sorted.
	ExternalURLs []string `json:"external_urls"`

	// VisitedCount is the number of URLs fetched successfully.
	VisitedCount int `json:"visited_count"`

	// RejectedCount is the number of URLs that ended rejected for any
	// reason: fetch failure, exclusion, robots, or scope policy.
	RejectedCount int `json:"rejected_count"`

	// ExcludedCount is the number of URLs rejected at discovery time by
	// the length limit or an exclusion prefix.
	ExcludedCount int `json:"excluded_count"`

	// RobotsSkippedCount is the number of URLs skipped because robots.txt
	// disallowed them. Zero unless robots compliance is enabled.
	RobotsSkippedCount int `json:"robots_skipped_count,omitempty"`

	// DownloadedCount is the number of files written by the downloader.
	// Zero unless downloading is enabled.
	DownloadedCount int `json:"downloaded_count,omitempty"`

	// Failures lists fetch and download errors encountered during the
	// crawl. Failures never abort a crawl; they are recorded here.
	Failures []Failure `json:"failures,omitempty"`

	// Statuses maps every discovered URL to its final frontier status.
	// Excluded from JSON output because URLs already lists the set and
	// the counters summarize the outcomes; the crawl history database
	// stores the per-URL statuses.
	Statuses map[string]Status `json:"-"`
}

// Failure records a single non-fatal error during the crawl.
type Failure struct {
	// URL is the URL the operation failed for.
	URL string `json:"url"`

	// Stage is the operation that failed: "fetch" or "download".
	Stage string `json:"stage"`

	// Reason is the error message.
	Reason string `json:"reason"`
}

// NewCrawlReport creates a report for the given normalized seed URL.
func NewCrawlReport(seed, seedHost string) *CrawlReport {
	return &CrawlReport{
		Seed:      seed,
		SeedHost:  seedHost,
		StartedAt: time.Now(),
	}
}

// Duration returns the wall time the crawl took.
func (r *CrawlReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TotalDiscovered returns the number of unique URLs discovered.
func (r *CrawlReport) TotalDiscovered() int {
	return len(r.URLs)
}

// FailedCount returns the number of recorded fetch failures.
// This is a subset of RejectedCount.
func (r *CrawlReport) FailedCount() int {
	n := 0
	for _, f := range r.Failures {
		if f.Stage == "fetch" {
			n++
		}
	}
	return n
}

// SortURLs sorts the three URL sets lexicographically in place.
// Export and report output rely on this stable presentation order.
func (r *CrawlReport) SortURLs() {
	sort.Strings(r.URLs)
	sort.Strings(r.InternalURLs)
	sort.Strings(r.ExternalURLs)
}
