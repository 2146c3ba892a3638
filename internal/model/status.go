package model

// Status represents the lifecycle state of a URL in the crawl frontier.
// A URL moves through states monotonically: once it leaves StatusPending
// it is never fetched again.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and map storage. The String() method provides
// human-readable output for reports and the database.
type Status int

const (
	// StatusPending indicates the URL has been discovered and is waiting
	// to be claimed by a fetch worker.
	StatusPending Status = iota

	// StatusInFlight indicates a worker has claimed the URL and a fetch
	// is in progress. At most one worker ever holds a URL in this state.
	StatusInFlight

	// StatusVisited indicates the URL was fetched successfully.
	// Terminal state.
	StatusVisited

	// StatusRejected indicates the URL will never be fetched: either the
	// fetch failed (no retries), or the URL was rejected at discovery time
	// because it was excluded, disallowed by robots.txt, or external while
	// external crawling is disabled. Terminal state.
	StatusRejected
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInFlight:
		return "in-flight"
	case StatusVisited:
		return "visited"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a final state.
// Terminal entries are never claimed by workers.
func (s Status) Terminal() bool {
	return s == StatusVisited || s == StatusRejected
}
