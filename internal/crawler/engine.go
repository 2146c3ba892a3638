package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/sitespider/internal/model"
)

// Fetcher retrieves a single URL. Implementations live outside this
// package; the engine treats any error uniformly as a fetch failure.
type Fetcher interface {
	// Fetch retrieves the URL and returns the resulting page.
	// A transport error or a non-success HTTP status is an error.
	Fetch(ctx context.Context, rawURL string) (*model.Page, error)
}

// Saver persists a fetched body to local storage.
type Saver interface {
	// Save writes body to a path derived from the URL and returns the
	// path it wrote.
	Save(u *url.URL, isHTML bool, body []byte) (string, error)
}

// Gatekeeper decides whether a URL may be fetched at all, for example
// by consulting robots.txt.
type Gatekeeper interface {
	// Allowed reports whether the URL may be fetched.
	Allowed(ctx context.Context, u *url.URL) bool
}

// Engine drives a pool of fetch workers against a shared Frontier until
// global quiescence. Per-URL failures never abort a crawl; they are
// recorded in the resulting report.
//
// Design decision: the engine accepts Fetcher, Saver, and Gatekeeper
// interfaces rather than concrete types because:
//  1. Tests can run against httptest servers or fakes without touching
//     the real transport or filesystem
//  2. Downloading and robots compliance are optional features wired in
//     only when configured
//  3. The engine stays free of HTTP and filesystem details
type Engine struct {
	// seed is the normalized crawl origin.
	seed *url.URL

	// fetcher performs the actual HTTP requests.
	fetcher Fetcher

	// saver mirrors fetched bodies to disk. Nil disables downloading.
	saver Saver

	// robots gates fetch-eligible URLs. Nil disables robots compliance.
	robots Gatekeeper

	// frontier owns URL deduplication and claim semantics.
	frontier *Frontier

	// classifier makes the internal/external/excluded decision.
	classifier *Classifier

	// limiter paces fetch initiations across the whole pool.
	// Nil disables pacing.
	limiter *rate.Limiter

	// workers is the number of concurrent fetch workers.
	workers int

	// crawlExternal allows fetching URLs on hosts other than the seed's.
	crawlExternal bool

	// maxURLLength and excludePrefixes configure the classifier.
	maxURLLength    int
	excludePrefixes []string

	// paceInterval is the minimum gap between fetch initiations.
	paceInterval time.Duration

	// logger for structured logging.
	logger *slog.Logger

	// mu guards the collection state below. The frontier has its own lock;
	// this one only covers the export sets and counters.
	mu            sync.Mutex
	internal      map[string]struct{}
	external      map[string]struct{}
	excluded      int
	robotsSkipped int
	downloaded    int
	failures      []model.Failure
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers sets the number of concurrent fetch workers.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithPaceInterval sets the minimum time between fetch initiations
// across the whole pool. Zero disables pacing.
func WithPaceInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.paceInterval = d
	}
}

// WithCrawlExternal allows fetching URLs whose host differs from the
// seed host. External URLs are recorded for export either way.
func WithCrawlExternal(crawl bool) EngineOption {
	return func(e *Engine) {
		e.crawlExternal = crawl
	}
}

// WithMaxURLLength excludes URLs at or beyond this serialized length.
func WithMaxURLLength(n int) EngineOption {
	return func(e *Engine) {
		e.maxURLLength = n
	}
}

// WithExcludePrefixes sets case-sensitive path prefixes that bar URLs
// from fetching.
func WithExcludePrefixes(prefixes []string) EngineOption {
	return func(e *Engine) {
		e.excludePrefixes = prefixes
	}
}

// WithSaver enables downloading through the given Saver.
func WithSaver(s Saver) EngineOption {
	return func(e *Engine) {
		e.saver = s
	}
}

// WithGatekeeper enables per-URL fetch gating, typically robots.txt
// compliance. The seed is not gated: registering it is explicit
// operator intent.
func WithGatekeeper(g Gatekeeper) EngineOption {
	return func(e *Engine) {
		e.robots = g
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine that crawls outward from the given
// normalized seed URL. The seed establishes the host that internal/
// external classification compares against.
func NewEngine(seed *url.URL, fetcher Fetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		seed:         seed,
		fetcher:      fetcher,
		frontier:     NewFrontier(),
		workers:      4,
		maxURLLength: 300,
		paceInterval: 100 * time.Millisecond,
		logger:       slog.Default(),
		internal:     make(map[string]struct{}),
		external:     make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.classifier = NewClassifier(seed.Host, e.maxURLLength, e.excludePrefixes)
	if e.paceInterval > 0 {
		e.limiter = rate.NewLimiter(rate.Every(e.paceInterval), 1)
	}

	return e
}

// Run crawls until the frontier reaches quiescence or ctx is cancelled,
// then returns the report built from everything gathered. On
// cancellation the report holds the partial state and Run returns the
// context's error alongside it; callers can still export the report.
func (e *Engine) Run(ctx context.Context) (*model.CrawlReport, error) {
	report := model.NewCrawlReport(e.seed.String(), e.seed.Host)

	// Cancellation interrupts the frontier, which drains the pool:
	// blocked claimers wake up and in-flight fetches fail fast via ctx.
	stop := context.AfterFunc(ctx, e.frontier.Interrupt)
	defer stop()

	// The seed is fetched unconditionally. Length and exclusion checks
	// do not apply to it: registering it is explicit operator intent.
	e.frontier.TrySeed(e.seed)
	e.recordInternal(e.seed.String())

	e.logger.Info("crawl started",
		"seed", e.seed.String(),
		"workers", e.workers,
		"pace", e.paceInterval,
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.workers; i++ {
		g.Go(func() error {
			e.worker(gctx)
			return nil
		})
	}
	// Workers contain all per-URL errors, so Wait only ever returns nil
	_ = g.Wait()

	e.finalize(ctx, report)

	e.logger.Info("crawl finished",
		"discovered", report.TotalDiscovered(),
		"visited", report.VisitedCount,
		"rejected", report.RejectedCount,
		"duration", report.Duration(),
	)

	return report, ctx.Err()
}

// worker claims URLs until the frontier signals the crawl is over.
func (e *Engine) worker(ctx context.Context) {
	for {
		u, ok := e.frontier.Claim()
		if !ok {
			return
		}
		e.process(ctx, u)
	}
}

// process fetches one claimed URL, feeds its links back into the
// frontier, optionally saves the body, and marks the URL terminal.
func (e *Engine) process(ctx context.Context, u *url.URL) {
	// The pacing gate serializes fetch initiations, not completions;
	// fetches may still overlap in flight.
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			// Cancelled while waiting for the gate; never fetched
			e.frontier.MarkRejected(u)
			return
		}
	}

	page, err := e.fetcher.Fetch(ctx, u.String())
	if err != nil {
		// No retries: a failed fetch permanently settles this URL
		e.logger.Debug("fetch failed", "url", u.String(), "error", err)
		e.addFailure(u.String(), "fetch", err)
		e.frontier.MarkRejected(u)
		return
	}

	// Discoveries must be offered before this URL goes terminal, or a
	// concurrent claimer could observe quiescence while links from this
	// page are still unqueued.
	if page.IsHTML() {
		for _, raw := range Extract(bytes.NewReader(page.Body)) {
			e.discover(ctx, raw, u)
		}
	}

	if e.saver != nil {
		if path, err := e.saver.Save(u, page.IsHTML(), page.Body); err != nil {
			// A single unwritable file must not stop discovery
			e.logger.Warn("download failed", "url", u.String(), "error", err)
			e.addFailure(u.String(), "download", err)
		} else {
			e.logger.Debug("downloaded", "url", u.String(), "path", path)
			e.addDownloaded()
		}
	}

	e.frontier.MarkVisited(u)
	e.logger.Debug("visited",
		"url", u.String(),
		"status", page.StatusCode,
		"size", page.Size,
	)
}

// discover normalizes one extracted reference against the page it came
// from, classifies it, and records it. Only fetch-eligible URLs are
// offered to the frontier as pending; everything else is registered as
// rejected so it still appears in the export sets.
func (e *Engine) discover(ctx context.Context, raw string, base *url.URL) {
	nu, err := Normalize(raw, base)
	if err != nil {
		// Invalid references are dropped; the crawl continues
		e.logger.Debug("dropped reference", "ref", raw, "error", err)
		return
	}

	switch e.classifier.Classify(nu) {
	case ClassExcluded:
		if e.frontier.Reject(nu) {
			e.addExcluded()
		}
	case ClassInternal:
		e.recordInternal(nu.String())
		e.offer(ctx, nu)
	case ClassExternal:
		e.recordExternal(nu.String())
		if e.crawlExternal {
			e.offer(ctx, nu)
		} else {
			// Crawling stops at the host boundary; discovery is still reported
			e.frontier.Reject(nu)
		}
	}
}

// offer queues a fetch-eligible URL, consulting the gatekeeper first
// when one is configured.
func (e *Engine) offer(ctx context.Context, nu *url.URL) {
	if e.robots != nil && !e.robots.Allowed(ctx, nu) {
		if e.frontier.Reject(nu) {
			e.addRobotsSkipped()
			e.logger.Debug("disallowed by robots.txt", "url", nu.String())
		}
		return
	}
	e.frontier.Offer(nu)
}

// finalize assembles the report from the frontier snapshot and the
// collected export sets and counters.
func (e *Engine) finalize(ctx context.Context, report *model.CrawlReport) {
	snapshot := e.frontier.Snapshot()

	report.FinishedAt = time.Now()
	report.Interrupted = ctx.Err() != nil

	urls := make([]string, 0, len(snapshot))
	visited, rejected := 0, 0
	for u, st := range snapshot {
		urls = append(urls, u)
		switch st {
		case model.StatusVisited:
			visited++
		case model.StatusRejected:
			rejected++
		default:
			// Pending or in flight; only present after an interrupt
		}
	}
	report.URLs = urls
	report.VisitedCount = visited
	report.RejectedCount = rejected
	report.Statuses = snapshot

	e.mu.Lock()
	report.InternalURLs = setToSlice(e.internal)
	report.ExternalURLs = setToSlice(e.external)
	report.ExcludedCount = e.excluded
	report.RobotsSkippedCount = e.robotsSkipped
	report.DownloadedCount = e.downloaded
	report.Failures = append([]model.Failure(nil), e.failures...)
	e.mu.Unlock()

	report.SortURLs()
}

func (e *Engine) recordInternal(u string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.internal[u] = struct{}{}
}

func (e *Engine) recordExternal(u string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.external[u] = struct{}{}
}

func (e *Engine) addExcluded() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.excluded++
}

func (e *Engine) addRobotsSkipped() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.robotsSkipped++
}

func (e *Engine) addDownloaded() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.downloaded++
}

func (e *Engine) addFailure(u, stage string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures = append(e.failures, model.Failure{
		URL:    u,
		Stage:  stage,
		Reason: err.Error(),
	})
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	return out
}
