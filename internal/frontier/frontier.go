// Package frontier manages the crawl queue: pending entries, the
// enqueued-or-visited dedupe set, and in-flight accounting used to
// detect when the crawl has drained.
package frontier

import (
	"sync"

	"github.com/cametumbling/crawlindex/internal/normalize"
	"github.com/cametumbling/crawlindex/internal/stats"
)

// Entry is a single frontier item: a canonical URL at a given depth.
type Entry struct {
	URL   string
	Depth int
}

// State is the result of a Take call.
type State int

const (
	// Ready means Entry is valid and should be processed.
	Ready State = iota
	// Drained means the queue is empty and no work is in flight; the
	// crawl is complete and callers should stop taking.
	Drained
	// Canceled means the frontier was canceled; callers should stop
	// taking without treating remaining entries as drained.
	Canceled
)

// Config bounds what the frontier will accept.
type Config struct {
	// MaxDepth caps offered depth, inclusive. Zero value with MaxDepth
	// unset (Unbounded true) means unbounded.
	MaxDepth    int
	Unbounded   bool
	AllowedHost string // empty means any host is allowed
}

// Frontier is the queue + visited-set + in-flight counter described by
// the crawl's data model. Safe for concurrent use.
type Frontier struct {
	cfg Config

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Entry
	seen     map[string]bool // enqueued-or-visited dedupe set
	inFlight int
	canceled bool

	stats *stats.Stats
}

// New returns an empty Frontier bound by cfg. st receives skip counters;
// it may be nil in tests that don't care about accounting.
func New(cfg Config, st *stats.Stats) *Frontier {
	f := &Frontier{
		cfg:   cfg,
		queue: make([]Entry, 0),
		seen:  make(map[string]bool),
		stats: st,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Seed normalizes and enqueues the start URL at depth 0. Returns false
// if the URL cannot be normalized or was already enqueued.
func (f *Frontier) Seed(rawURL string) bool {
	canonical, ok := normalize.Normalize(rawURL, rawURL)
	if !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[canonical] {
		return false
	}
	f.seen[canonical] = true
	f.queue = append(f.queue, Entry{URL: canonical, Depth: 0})
	f.cond.Broadcast()
	return true
}

// Offer normalizes and enqueues each link discovered on a page fetched
// at parentDepth, applying depth, host, and dedup filters.
func (f *Frontier) Offer(links []string, pageURL string, parentDepth int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	childDepth := parentDepth + 1

	for _, raw := range links {
		canonical, ok := normalize.Normalize(raw, pageURL)
		if !ok {
			continue
		}

		if !f.cfg.Unbounded && childDepth > f.cfg.MaxDepth {
			if f.stats != nil {
				f.stats.IncSkippedDepth()
			}
			continue
		}

		if f.cfg.AllowedHost != "" && normalize.Host(canonical) != f.cfg.AllowedHost {
			if f.stats != nil {
				f.stats.IncSkippedDomain()
			}
			continue
		}

		if f.seen[canonical] {
			if f.stats != nil {
				f.stats.IncSkippedVisited()
			}
			continue
		}

		f.seen[canonical] = true
		f.queue = append(f.queue, Entry{URL: canonical, Depth: childDepth})
	}

	f.cond.Broadcast()
}

// Take returns the next entry. If the queue is empty and nothing is in
// flight, it returns Drained. If canceled, it returns Canceled. If the
// queue is empty but work is still in flight, it blocks until the state
// changes.
func (f *Frontier) Take() (Entry, State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.canceled {
			return Entry{}, Canceled
		}
		if len(f.queue) > 0 {
			e := f.queue[0]
			f.queue = f.queue[1:]
			f.inFlight++
			return e, Ready
		}
		if f.inFlight == 0 {
			return Entry{}, Drained
		}
		f.cond.Wait()
	}
}

// Done marks url's processing complete, decrementing the in-flight
// counter and waking any workers blocked in Take.
func (f *Frontier) Done(url string) {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Cancel stops the frontier from handing out further entries and wakes
// all workers blocked in Take.
func (f *Frontier) Cancel() {
	f.mu.Lock()
	f.canceled = true
	f.mu.Unlock()
	f.cond.Broadcast()
}
