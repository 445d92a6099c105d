// Package stats accumulates crawl-wide counters and the failure-kind
// taxonomy shared by the fetcher, parser, and indexer.
package stats

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// FailureKind categorizes why a fetch, parse, or index operation failed.
type FailureKind string

const (
	KindTimeout          FailureKind = "timeout"
	KindNetwork          FailureKind = "network"
	KindHTTP4xx          FailureKind = "http_4xx"
	KindHTTP5xx          FailureKind = "http_5xx"
	KindOversize         FailureKind = "oversize"
	KindBadContentType   FailureKind = "bad_content_type"
	KindTooManyRedirects FailureKind = "too_many_redirects"
	KindCanceled         FailureKind = "canceled"
	KindParse            FailureKind = "parse"
	KindIndex            FailureKind = "index"
)

// Stats accumulates atomic crawl counters. Safe for concurrent use by
// any number of workers.
type Stats struct {
	fetched        atomic.Int64
	indexed        atomic.Int64
	retries        atomic.Int64
	skippedDepth   atomic.Int64
	skippedDomain  atomic.Int64
	skippedVisited atomic.Int64

	failedTimeout     atomic.Int64
	failedNetwork     atomic.Int64
	failedHTTP4xx     atomic.Int64
	failedHTTP5xx     atomic.Int64
	failedOversize    atomic.Int64
	failedContentType atomic.Int64
	failedRedirects   atomic.Int64
	failedParse       atomic.Int64
	failedIndex       atomic.Int64

	startedAt time.Time
}

// New returns a Stats with its elapsed-time clock started.
func New() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) IncFetched()        { s.fetched.Add(1) }
func (s *Stats) IncIndexed()        { s.indexed.Add(1) }
func (s *Stats) IncRetries(n int64) { s.retries.Add(n) }
func (s *Stats) IncSkippedDepth()   { s.skippedDepth.Add(1) }
func (s *Stats) IncSkippedDomain()  { s.skippedDomain.Add(1) }
func (s *Stats) IncSkippedVisited() { s.skippedVisited.Add(1) }

// IncFailed increments the counter for kind. Canceled is not counted,
// per the error-handling table: cancellation ends the run, it is not a
// per-URL failure.
func (s *Stats) IncFailed(kind FailureKind) {
	switch kind {
	case KindTimeout:
		s.failedTimeout.Add(1)
	case KindNetwork:
		s.failedNetwork.Add(1)
	case KindHTTP4xx:
		s.failedHTTP4xx.Add(1)
	case KindHTTP5xx:
		s.failedHTTP5xx.Add(1)
	case KindOversize:
		s.failedOversize.Add(1)
	case KindBadContentType:
		s.failedContentType.Add(1)
	case KindTooManyRedirects:
		s.failedRedirects.Add(1)
	case KindParse:
		s.failedParse.Add(1)
	case KindIndex:
		s.failedIndex.Add(1)
	case KindCanceled:
		// not counted
	}
}

// Snapshot is an immutable point-in-time view of the counters.
type Snapshot struct {
	Fetched        int64
	Indexed        int64
	Failed         int64
	Retries        int64
	SkippedDepth   int64
	SkippedDomain  int64
	SkippedVisited int64
	FailedByKind   map[FailureKind]int64
	Elapsed        time.Duration
}

// Snapshot reads all counters and returns an immutable copy.
func (s *Stats) Snapshot() Snapshot {
	byKind := map[FailureKind]int64{
		KindTimeout:          s.failedTimeout.Load(),
		KindNetwork:          s.failedNetwork.Load(),
		KindHTTP4xx:          s.failedHTTP4xx.Load(),
		KindHTTP5xx:          s.failedHTTP5xx.Load(),
		KindOversize:         s.failedOversize.Load(),
		KindBadContentType:   s.failedContentType.Load(),
		KindTooManyRedirects: s.failedRedirects.Load(),
		KindParse:            s.failedParse.Load(),
		KindIndex:            s.failedIndex.Load(),
	}

	var failed int64
	for _, n := range byKind {
		failed += n
	}

	return Snapshot{
		Fetched:        s.fetched.Load(),
		Indexed:        s.indexed.Load(),
		Failed:         failed,
		Retries:        s.retries.Load(),
		SkippedDepth:   s.skippedDepth.Load(),
		SkippedDomain:  s.skippedDomain.Load(),
		SkippedVisited: s.skippedVisited.Load(),
		FailedByKind:   byKind,
		Elapsed:        time.Since(s.startedAt),
	}
}

// Report writes a single summary line to w: counters plus elapsed wall
// time with millisecond resolution.
func (sn Snapshot) Report(w io.Writer) {
	fmt.Fprintf(w, "crawl complete: fetched=%d indexed=%d failed=%d retries=%d skipped_depth=%d skipped_domain=%d skipped_visited=%d elapsed=%.3fs\n",
		sn.Fetched, sn.Indexed, sn.Failed, sn.Retries,
		sn.SkippedDepth, sn.SkippedDomain, sn.SkippedVisited,
		sn.Elapsed.Seconds())
}
