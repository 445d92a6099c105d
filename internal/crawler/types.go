// Package crawler defines the core ports of the crawl engine — the
// Fetcher and Parser interfaces, their result types, and the Engine
// that drives workers over a frontier. Platform adapters under
// internal/platform implement Fetcher and Parser; internal/frontier
// and internal/indexer supply the queue and storage the Engine wires
// together.
package crawler

import (
	"context"
	"time"
)

// FetchResult is the outcome of a successful fetch: the response body
// was read within the size cap and the status code was 2xx.
type FetchResult struct {
	FinalURL    string // URL after following redirects
	StatusCode  int
	ContentType string
	Body        []byte
	Attempts    int // total attempts including the one that succeeded
	Duration    time.Duration
}

// ParseOutcome is the structured content a Parser extracts from an
// HTML page.
type ParseOutcome struct {
	Title    string
	Text     string
	Keywords []string
	Links    []string // raw href values, not yet resolved or normalized
}

// Fetcher retrieves the content at url. Implementations apply their own
// timeout, retry, and size-cap policy and report the outcome through
// FetchResult or a *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Parser extracts structured content from an HTML document.
type Parser interface {
	Parse(body []byte, pageURL string) (ParseOutcome, error)
}
