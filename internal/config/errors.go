package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeed is returned when no seed URL is specified.
	// This error occurs when the positional URL argument is missing.
	ErrNoSeed = errors.New("no seed specified: provide a URL to start crawling from")

	// ErrInvalidMaxURLLength is returned when the maximum URL length is
	// not positive. A limit of zero would exclude every discovered URL.
	ErrInvalidMaxURLLength = errors.New("invalid max URL length: must be positive")

	// ErrInvalidPaceInterval is returned when the pace interval is negative.
	// A negative interval is invalid; use 0 to disable pacing.
	ErrInvalidPaceInterval = errors.New("invalid pace interval: must be non-negative")

	// ErrInvalidWorkerCount is returned when the worker count is not positive.
	// A worker count of zero would mean no fetches, effectively stopping
	// the crawl before it starts.
	ErrInvalidWorkerCount = errors.New("invalid worker count: must be positive")

	// ErrInvalidRequestTimeout is returned when the request timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoDownloadDir is returned when downloading is enabled but the
	// download directory is empty.
	ErrNoDownloadDir = errors.New("no download directory: --download requires a destination directory")
)
