package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitespider/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "sitespider.db"

// CrawlDB provides SQLite-based storage for crawl history.
// It manages connection pooling and provides methods for saving and
// querying past crawl runs.
//
// Design decision: We use a single database file for all hosts rather
// than one file per host. This keeps cross-host queries (the host list,
// global history) trivial and simplifies backup.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY errors under concurrent access
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl run
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		host TEXT NOT NULL,
		seed_url TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		total_count INTEGER NOT NULL,
		internal_count INTEGER NOT NULL,
		external_count INTEGER NOT NULL,
		visited_count INTEGER NOT NULL,
		rejected_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL,
		interrupted INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_host ON crawls(host);
	CREATE INDEX IF NOT EXISTS idx_crawls_started ON crawls(started_at);

	-- Every URL a crawl discovered, with its scope and final status
	CREATE TABLE IF NOT EXISTS crawl_urls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id INTEGER NOT NULL REFERENCES crawls(id),
		url TEXT NOT NULL,
		classification TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crawl_urls_crawl ON crawl_urls(crawl_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawlReport stores a finished crawl and its URL set.
// It returns the new crawl's database ID.
func (cdb *CrawlDB) SaveCrawlReport(ctx context.Context, report *model.CrawlReport) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback after a successful commit is a harmless no-op
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, `
	INSERT INTO crawls (host, seed_url, started_at, finished_at, duration_ms,
		total_count, internal_count, external_count,
		visited_count, rejected_count, failed_count, interrupted)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.SeedHost,
		report.Seed,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.FinishedAt.UTC().Format(time.RFC3339),
		report.Duration().Milliseconds(),
		report.TotalDiscovered(),
		len(report.InternalURLs),
		len(report.ExternalURLs),
		report.VisitedCount,
		report.RejectedCount,
		report.FailedCount(),
		boolToInt(report.Interrupted),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	crawlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO crawl_urls (crawl_id, url, classification, status)
	VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare url insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	internal := toSet(report.InternalURLs)
	external := toSet(report.ExternalURLs)

	for _, u := range report.URLs {
		classification := "excluded"
		switch {
		case internal[u]:
			classification = "internal"
		case external[u]:
			classification = "external"
		}

		status := "rejected"
		if s, ok := report.Statuses[u]; ok {
			status = s.String()
		}

		if _, err := stmt.ExecContext(ctx, crawlID, u, classification, status); err != nil {
			return 0, fmt.Errorf("failed to insert crawl url: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}

	return crawlID, nil
}

// CrawlSummary is one row of crawl history, without the URL set.
type CrawlSummary struct {
	// ID is the crawl's database identifier.
	ID int64 `json:"id"`

	// Host is the seed host the crawl ran against.
	Host string `json:"host"`

	// SeedURL is the normalized URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// StartedAt and FinishedAt bound the crawl run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Duration is the wall time the crawl took, in nanoseconds.
	Duration time.Duration `json:"duration_ns"`

	// Counters mirror the crawl report.
	TotalCount    int `json:"total_count"`
	InternalCount int `json:"internal_count"`
	ExternalCount int `json:"external_count"`
	VisitedCount  int `json:"visited_count"`
	RejectedCount int `json:"rejected_count"`
	FailedCount   int `json:"failed_count"`

	// Interrupted is true when the crawl was cancelled before quiescence.
	Interrupted bool `json:"interrupted"`
}

// CrawlURL is one discovered URL of a stored crawl.
type CrawlURL struct {
	// URL is the normalized URL string.
	URL string `json:"url"`

	// Classification is "internal", "external", or "excluded".
	Classification string `json:"classification"`

	// Status is the final frontier status ("visited", "rejected", ...).
	Status string `json:"status"`
}

// ListHosts returns every host that has crawl history, sorted.
func (cdb *CrawlDB) ListHosts(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT DISTINCT host FROM crawls ORDER BY host
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan host: %w", err)
		}
		hosts = append(hosts, host)
	}

	return hosts, rows.Err()
}

// CrawlHistory returns the crawl summaries for a host, newest first.
func (cdb *CrawlDB) CrawlHistory(ctx context.Context, host string) ([]CrawlSummary, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT id, host, seed_url, started_at, finished_at, duration_ms,
		total_count, internal_count, external_count,
		visited_count, rejected_count, failed_count, interrupted
	FROM crawls
	WHERE host = ?
	ORDER BY started_at DESC, id DESC
	`, host)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var results []CrawlSummary
	for rows.Next() {
		var s CrawlSummary
		var startedAt, finishedAt string
		var durationMS int64
		var interrupted int

		err := rows.Scan(
			&s.ID,
			&s.Host,
			&s.SeedURL,
			&startedAt,
			&finishedAt,
			&durationMS,
			&s.TotalCount,
			&s.InternalCount,
			&s.ExternalCount,
			&s.VisitedCount,
			&s.RejectedCount,
			&s.FailedCount,
			&interrupted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl summary: %w", err)
		}

		s.StartedAt = parseTimestamp(startedAt)
		s.FinishedAt = parseTimestamp(finishedAt)
		s.Duration = time.Duration(durationMS) * time.Millisecond
		s.Interrupted = interrupted != 0
		results = append(results, s)
	}

	return results, rows.Err()
}

// CrawlURLs returns the URL set of a stored crawl, sorted by URL.
func (cdb *CrawlDB) CrawlURLs(ctx context.Context, crawlID int64) ([]CrawlURL, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT url, classification, status
	FROM crawl_urls
	WHERE crawl_id = ?
	ORDER BY url
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl urls: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var results []CrawlURL
	for rows.Next() {
		var u CrawlURL
		if err := rows.Scan(&u.URL, &u.Classification, &u.Status); err != nil {
			return nil, fmt.Errorf("failed to scan crawl url: %w", err)
		}
		results = append(results, u)
	}

	return results, rows.Err()
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toSet builds a membership set from a URL slice.
func toSet(urls []string) map[string]bool {
	set := make(map[string]bool, len(urls))
	for _, u := range urls {
		set[u] = true
	}
	return set
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,              // Format we write
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
