package crawler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cametumbling/crawlindex/internal/frontier"
	"github.com/cametumbling/crawlindex/internal/indexer"
	"github.com/cametumbling/crawlindex/internal/normalize"
	"github.com/cametumbling/crawlindex/internal/stats"
)

// worker loops taking frontier entries until the frontier drains or is
// canceled.
func (e *Engine) worker(ctx context.Context, id int) {
	for {
		entry, state := e.frontier.Take()
		switch state {
		case frontier.Drained, frontier.Canceled:
			return
		}

		e.process(ctx, entry)
		e.frontier.Done(entry.URL)
	}
}

// process runs one frontier entry through rate-limit → fetch → parse →
// index → offer, recording stats and logging failures along the way.
func (e *Engine) process(ctx context.Context, entry frontier.Entry) {
	host := normalize.Host(entry.URL)

	if err := e.cfg.RateLimiter.Acquire(ctx, host); err != nil {
		return
	}

	result, err := e.cfg.Fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		if !e.recordFailure(entry.URL, err) {
			return
		}
		e.cfg.Stats.IncFetched()
		return
	}
	e.cfg.Stats.IncFetched()
	if result.Attempts > 1 {
		e.cfg.Stats.IncRetries(int64(result.Attempts - 1))
	}

	outcome, err := e.cfg.Parser.Parse(result.Body, result.FinalURL)
	if err != nil {
		slog.Warn("parse failed", "url", entry.URL, "kind", stats.KindParse, "err", err)
		e.cfg.Stats.IncFailed(stats.KindParse)
		return
	}

	rec := indexer.Record{
		URL:      result.FinalURL,
		Title:    outcome.Title,
		Keywords: outcome.Keywords,
		Text:     outcome.Text,
	}
	if err := e.cfg.Indexer.Index(ctx, rec); err != nil {
		slog.Warn("index failed", "url", entry.URL, "kind", stats.KindIndex, "err", err)
		e.cfg.Stats.IncFailed(stats.KindIndex)
		return
	}
	e.cfg.Stats.IncIndexed()

	if ctx.Err() == nil {
		e.frontier.Offer(outcome.Links, result.FinalURL, entry.Depth)
	}
}

// recordFailure logs and accounts a fetch failure, returning whether it
// counts as a terminal fetch (false for cancellation, which ends the
// run rather than completing a fetch attempt).
func (e *Engine) recordFailure(url string, err error) bool {
	var ferr *FetchError
	kind := stats.KindNetwork
	if errors.As(err, &ferr) {
		kind = ferr.Kind
	}
	if kind == stats.KindCanceled {
		return false
	}
	slog.Warn("fetch failed", "url", url, "kind", kind, "err", err)
	e.cfg.Stats.IncFailed(kind)
	return true
}
