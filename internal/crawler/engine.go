package crawler

import (
	"context"
	"sync"

	"github.com/cametumbling/crawlindex/internal/frontier"
	"github.com/cametumbling/crawlindex/internal/indexer"
	"github.com/cametumbling/crawlindex/internal/normalize"
	"github.com/cametumbling/crawlindex/internal/ratelimit"
	"github.com/cametumbling/crawlindex/internal/stats"
)

// Config wires the dependencies and bounds the Engine needs.
type Config struct {
	StartURL string
	Workers  int // default 10 if zero

	MaxDepth    int
	Unbounded   bool
	AllowedHost string // empty means any host is allowed

	Fetcher     Fetcher
	Parser      Parser
	Indexer     *indexer.Indexer
	RateLimiter *ratelimit.Limiter
	Stats       *stats.Stats
}

const defaultWorkers = 10

// Engine owns the worker pool and drives the take → rate-limit → fetch
// → parse → index → offer pipeline until the frontier drains or the
// run is canceled.
type Engine struct {
	cfg      Config
	frontier *frontier.Frontier
}

// New validates cfg, seeds the frontier with the start URL, and
// returns a ready-to-run Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	_, ok := normalize.Normalize(cfg.StartURL, cfg.StartURL)
	if !ok {
		return nil, &FetchError{URL: cfg.StartURL, Kind: stats.KindNetwork}
	}

	f := frontier.New(frontier.Config{
		MaxDepth:    cfg.MaxDepth,
		Unbounded:   cfg.Unbounded,
		AllowedHost: cfg.AllowedHost,
	}, cfg.Stats)

	if !f.Seed(cfg.StartURL) {
		return nil, &FetchError{URL: cfg.StartURL, Kind: stats.KindNetwork}
	}

	return &Engine{cfg: cfg, frontier: f}, nil
}

// Run starts the worker pool and blocks until the frontier drains or
// ctx is canceled, then returns the final stats snapshot.
func (e *Engine) Run(ctx context.Context) stats.Snapshot {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-runCtx.Done()
		e.frontier.Cancel()
	}()

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			e.worker(runCtx, id)
		}(i)
	}
	wg.Wait()

	return e.cfg.Stats.Snapshot()
}
