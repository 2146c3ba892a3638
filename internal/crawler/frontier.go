package crawler

import (
	"net/url"
	"sync"

	"github.com/nao1215/sitespider/internal/model"
)

// Frontier tracks every discovered URL and its status, and hands pending
// URLs to workers exactly once. It is the single deduplication gate: all
// discovery paths funnel through Offer or Reject, and a URL that is
// already present (any status) is never registered twice. Entries are
// never removed; the full map persists to the end of the run because it
// doubles as the export source.
//
// A URL moves monotonically Pending -> InFlight -> (Visited | Rejected),
// or is registered directly as Rejected when policy bars it from
// fetching (exclusion, scope, robots). No two workers ever hold the
// same URL in flight.
//
// Design decision: All state lives behind one mutex with a condition
// variable rather than channels because:
//  1. Claim must atomically couple "queue empty" with "none in flight"
//     to detect quiescence; a channel cannot express that combination
//  2. Workers both consume and produce work, so a closed-channel
//     termination signal has no single owner
//  3. The status map and the pending queue must change together
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	// status holds every discovered URL keyed by its normalized string.
	status map[string]model.Status

	// queue holds pending URLs in discovery order.
	queue []*url.URL

	// inFlight counts claimed URLs not yet marked terminal.
	inFlight int

	// interrupted makes all subsequent claims fail, draining the pool.
	interrupted bool
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	f := &Frontier{
		status: make(map[string]model.Status),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// TrySeed registers the crawl origin as pending. It reports whether the
// URL was newly added; it only returns false when the seed was somehow
// registered before, in which case the crawl state is already seeded.
func (f *Frontier) TrySeed(u *url.URL) bool {
	return f.Offer(u)
}

// Offer registers a newly discovered URL as pending if and only if it is
// not already present with any status. It reports whether the URL was
// newly added. Offering the same URL twice has the effect of one call;
// this idempotence is what bounds the crawl to the reachable-URL graph
// instead of looping on cycles.
func (f *Frontier) Offer(u *url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := u.String()
	if _, ok := f.status[key]; ok {
		return false
	}
	f.status[key] = model.StatusPending
	f.queue = append(f.queue, u)
	f.cond.Signal()
	return true
}

// Reject registers a URL directly in the rejected state, recording it
// for export without ever queueing it for a fetch. Like Offer it is a
// no-op when the URL is already present. It reports whether the URL was
// newly added.
func (f *Frontier) Reject(u *url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := u.String()
	if _, ok := f.status[key]; ok {
		return false
	}
	f.status[key] = model.StatusRejected
	return true
}

// TryClaim atomically selects one pending URL, marks it in flight, and
// returns it. It returns false immediately when no pending URLs remain
// or the frontier was interrupted. An empty queue does not imply the
// crawl is done: another worker may still be producing. Use Claim to
// block until work arrives or the crawl ends.
func (f *Frontier) TryClaim() (*url.URL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.interrupted || len(f.queue) == 0 {
		return nil, false
	}
	return f.claimLocked(), true
}

// Claim blocks until it can return a pending URL marked in flight.
// It returns false when the crawl is over: either the Frontier reached
// quiescence (nothing pending and nothing in flight) or it was
// interrupted. A false return is final; workers should exit.
func (f *Frontier) Claim() (*url.URL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.interrupted {
			return nil, false
		}
		if len(f.queue) > 0 {
			return f.claimLocked(), true
		}
		if f.inFlight == 0 {
			// Quiescence: nothing pending and nobody producing
			return nil, false
		}
		f.cond.Wait()
	}
}

// claimLocked pops the queue head and marks it in flight.
// The caller must hold mu and have checked the queue is non-empty.
func (f *Frontier) claimLocked() *url.URL {
	u := f.queue[0]
	f.queue = f.queue[1:]
	f.status[u.String()] = model.StatusInFlight
	f.inFlight++
	return u
}

// MarkVisited records a successful fetch for a claimed URL.
// Called exactly once per claimed URL.
func (f *Frontier) MarkVisited(u *url.URL) {
	f.markTerminal(u, model.StatusVisited)
}

// MarkRejected records a failed or abandoned fetch for a claimed URL.
// Called exactly once per claimed URL.
func (f *Frontier) MarkRejected(u *url.URL) {
	f.markTerminal(u, model.StatusRejected)
}

func (f *Frontier) markTerminal(u *url.URL, s model.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.status[u.String()] = s
	f.inFlight--
	if f.inFlight == 0 && len(f.queue) == 0 {
		// Quiescence reached; wake every blocked claimer so the pool drains
		f.cond.Broadcast()
	}
}

// Interrupt makes all current and future Claim calls return false.
// In-flight work is unaffected; workers finish their current URL and
// then exit. Safe to call more than once and from any goroutine,
// typically via context.AfterFunc.
func (f *Frontier) Interrupt() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.interrupted = true
	f.cond.Broadcast()
}

// Snapshot returns a copy of every discovered URL and its status at the
// time of the call. The copy is safe to read without synchronization.
func (f *Frontier) Snapshot() map[string]model.Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := make(map[string]model.Status, len(f.status))
	for k, v := range f.status {
		snap[k] = v
	}
	return snap
}

// Len returns the number of discovered URLs (any status).
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.status)
}
