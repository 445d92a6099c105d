package crawler

import (
	"fmt"

	"github.com/cametumbling/crawlindex/internal/stats"
)

// FetchError describes why a fetch attempt failed, categorized the way
// the engine needs in order to decide whether to retry and how to
// account for the failure in stats.
type FetchError struct {
	URL        string
	StatusCode int // non-zero for HTTP-level failures
	Kind       stats.FailureKind
	Err        error // underlying error, if any
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Category reports the failure kind for stats accounting and retry
// decisions.
func (e *FetchError) Category() stats.FailureKind { return e.Kind }

// Retryable reports whether the engine should re-attempt a fetch that
// failed with this error. Timeouts, transient network errors, and 5xx
// responses are retryable; 4xx, oversize, and bad-content-type are not.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case stats.KindTimeout, stats.KindNetwork, stats.KindHTTP5xx:
		return true
	default:
		return false
	}
}
