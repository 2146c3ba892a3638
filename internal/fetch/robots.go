package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// maxRobotsBodySize limits the size of robots.txt responses we read.
// Real robots.txt files are tiny; anything bigger is suspect.
const maxRobotsBodySize = 512 * 1024 // 512KB

// RobotsGate checks URLs against each host's robots.txt rules.
// It fetches robots.txt once per host and caches the parsed result for
// the rest of the run; a crawl is a single-shot process, so the cache
// needs no TTL.
//
// The gate fails open: an unreachable robots.txt, a non-200 status, or
// a parse failure all mean "allow everything" for that host, matching
// common crawler practice.
type RobotsGate struct {
	// client performs the robots.txt fetches. It is the same client the
	// crawl uses, so proxy and header configuration apply here too.
	client *http.Client

	// userAgent is the agent name tested against robots.txt groups.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger

	// mu guards the cache. Entries are written once per host and then
	// only read.
	mu    sync.Mutex
	cache map[string]*robotsEntry
}

// robotsEntry is the cached per-host verdict source.
type robotsEntry struct {
	// data is the parsed robots.txt. Nil means allow all.
	data *robotstxt.RobotsData
}

// NewRobotsGate creates a RobotsGate that fetches robots.txt with the
// given client and tests rules against the given user agent.
func NewRobotsGate(client *http.Client, userAgent string, logger *slog.Logger) *RobotsGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsGate{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		cache:     make(map[string]*robotsEntry),
	}
}

// Allowed reports whether the URL may be fetched under its host's
// robots.txt rules. It implements the crawl engine's Gatekeeper
// interface.
func (g *RobotsGate) Allowed(ctx context.Context, u *url.URL) bool {
	entry := g.entryFor(ctx, u)
	if entry.data == nil {
		return true
	}

	path := u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return entry.data.TestAgent(path, g.userAgent)
}

// entryFor returns the cached entry for the URL's host, fetching and
// parsing robots.txt on first sight of the host.
//
// The lock is held across the fetch on purpose: it serializes the
// robots.txt requests for a host so concurrent workers discovering the
// same host do not race to fetch the same file.
func (g *RobotsGate) entryFor(ctx context.Context, u *url.URL) *robotsEntry {
	host := strings.ToLower(u.Host)

	g.mu.Lock()
	defer g.mu.Unlock()

	if entry, ok := g.cache[host]; ok {
		return entry
	}

	entry := &robotsEntry{data: g.fetchRobots(ctx, u.Scheme, host)}
	g.cache[host] = entry
	return entry
}

// fetchRobots retrieves and parses a host's robots.txt.
// Every failure path returns nil, which the caller treats as allow-all.
func (g *RobotsGate) fetchRobots(ctx context.Context, scheme, host string) *robotstxt.RobotsData {
	robotsURL := scheme + "://" + host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("robots.txt unreachable, allowing all", "host", host, "error", err)
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck // Body fully consumed below

	if resp.StatusCode != http.StatusOK {
		g.logger.Debug("robots.txt not available, allowing all", "host", host, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodySize))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		g.logger.Debug("robots.txt unparsable, allowing all", "host", host, "error", err)
		return nil
	}

	g.logger.Debug("robots.txt loaded", "host", host, "size", len(body))
	return data
}
