package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values follow the original web-crawler defaults where applicable
// and stay conservative where the original had no equivalent knob.
const (
	// DefaultMaxURLLength excludes URLs at or beyond this serialized length.
	// Pathologically long URLs usually come from calendar pages, session
	// echoes, and similar URL generators that never terminate; bounding
	// length bounds the crawl.
	DefaultMaxURLLength = 300

	// DefaultPaceInterval is the minimum gap between fetch initiations
	// across the whole worker pool. 100ms keeps a single-host crawl near
	// ten requests per second, fast enough for small sites and gentle
	// enough not to look like a flood.
	DefaultPaceInterval = 100 * time.Millisecond

	// DefaultWorkerCount is the number of concurrent fetch workers.
	// The global pacing gate serializes request initiations anyway, so a
	// small pool is enough to keep requests overlapping in flight.
	DefaultWorkerCount = 4

	// DefaultRequestTimeout is the per-request HTTP timeout.
	// 30 seconds tolerates slow servers without letting a dead one stall
	// a worker for long.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultUserAgent identifies sitespider in HTTP requests.
	// A descriptive User-Agent is good practice and lets operators
	// identify crawler traffic in their logs.
	DefaultUserAgent = "sitespider/1.0 (+https://github.com/nao1215/sitespider)"

	// DefaultMaxBodySize limits the response body size read per fetch.
	// 10MB covers HTML and typical assets while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultDownloadDir is the root directory for mirrored files.
	// Files are written under <dir>/<host>/<path>.
	DefaultDownloadDir = "."

	// AppName is the application name used for XDG directory paths.
	AppName = "sitespider"
)

// Config holds all configuration options for a crawl run.
// This struct is populated from CLI flags and the optional config file,
// then passed through the application via dependency injection. It is
// read-only after construction and shared by all workers.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Seed is the URL the crawl starts from. Required.
	Seed string

	// Download enables mirroring fetched files to the local filesystem.
	Download bool

	// DownloadDir is the root directory for mirrored files.
	DownloadDir string

	// CrawlExternal allows fetching URLs whose host differs from the
	// seed host. When false, external URLs are recorded for export but
	// never fetched.
	CrawlExternal bool

	// MaxURLLength excludes any URL whose serialized form is at or
	// beyond this length. The boundary is inclusive: a URL of exactly
	// this length is excluded.
	MaxURLLength int

	// ExcludePrefixes holds case-sensitive path prefixes; a URL whose
	// path starts with any of them is excluded from fetching.
	ExcludePrefixes []string

	// PaceInterval is the minimum time between fetch initiations across
	// the whole pool. Zero disables pacing.
	PaceInterval time.Duration

	// ExportAll, ExportInternal, and ExportExternal are destination file
	// paths for the discovered URL sets. Each is optional and written
	// independently at the end of the crawl.
	ExportAll      string
	ExportInternal string
	ExportExternal string

	// Workers is the number of concurrent fetch workers.
	Workers int

	// RequestTimeout is the per-request HTTP timeout.
	RequestTimeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger responses are truncated. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// When set, all requests are routed through it.
	ProxyAddress string

	// RespectRobots enables robots.txt compliance. URLs disallowed for
	// the configured user agent are rejected without a fetch.
	RespectRobots bool

	// Cookie is a raw cookie string sent with every request, typically
	// loaded from the config file for authenticated crawls.
	Cookie string

	// Headers are custom HTTP headers added to every request.
	Headers map[string]string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of the colored
	// console summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// colored console summary. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitespider in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host settings loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory for the crawl history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		DownloadDir:    DefaultDownloadDir,
		MaxURLLength:   DefaultMaxURLLength,
		PaceInterval:   DefaultPaceInterval,
		Workers:        DefaultWorkerCount,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for sitespider.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitespider
// On macOS: ~/Library/Application Support/sitespider
// On Windows: %LOCALAPPDATA%\sitespider
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The seed is the only mandatory input
	if c.Seed == "" {
		return ErrNoSeed
	}

	// Zero would exclude every URL including the seed's links
	if c.MaxURLLength <= 0 {
		return ErrInvalidMaxURLLength
	}

	// Negative pacing makes no sense; zero disables pacing
	if c.PaceInterval < 0 {
		return ErrInvalidPaceInterval
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkerCount
	}

	// Zero timeout would cause immediate request failures
	if c.RequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Download && c.DownloadDir == "" {
		return ErrNoDownloadDir
	}

	return nil
}
