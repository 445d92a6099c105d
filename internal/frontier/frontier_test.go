package frontier

import (
	"sync"
	"testing"

	"github.com/cametumbling/crawlindex/internal/normalize"
	"github.com/cametumbling/crawlindex/internal/stats"
)

func TestSeed_EnqueuesAtDepthZero(t *testing.T) {
	f := New(Config{Unbounded: true}, nil)
	if !f.Seed("https://example.com/") {
		t.Fatal("Seed() = false, want true")
	}

	entry, state := f.Take()
	if state != Ready {
		t.Fatalf("Take() state = %v, want Ready", state)
	}
	if entry.Depth != 0 {
		t.Errorf("Depth = %d, want 0", entry.Depth)
	}
}

func TestSeed_DuplicateRejected(t *testing.T) {
	f := New(Config{Unbounded: true}, nil)
	f.Seed("https://example.com/")
	if f.Seed("https://example.com/") {
		t.Error("Seed() duplicate returned true, want false")
	}
}

func TestOffer_DepthIsParentPlusOne(t *testing.T) {
	f := New(Config{Unbounded: true}, nil)
	f.Seed("https://example.com/")
	entry, _ := f.Take()

	f.Offer([]string{"https://example.com/child"}, entry.URL, entry.Depth)

	child, state := f.Take()
	if state != Ready {
		t.Fatalf("Take() state = %v, want Ready", state)
	}
	if child.Depth != entry.Depth+1 {
		t.Errorf("child depth = %d, want %d", child.Depth, entry.Depth+1)
	}
}

func TestOffer_MaxDepthBoundary(t *testing.T) {
	st := stats.New()
	f := New(Config{MaxDepth: 1}, st)
	f.Seed("https://example.com/")
	entry, _ := f.Take() // depth 0

	f.Offer([]string{"https://example.com/ok"}, entry.URL, entry.Depth) // would be depth 1, allowed
	f.Done(entry.URL)

	child, state := f.Take()
	if state != Ready || child.Depth != 1 {
		t.Fatalf("Take() = %v, %v, want depth-1 Ready entry", child, state)
	}

	f.Offer([]string{"https://example.com/too-deep"}, child.URL, child.Depth) // would be depth 2, rejected
	f.Done(child.URL)

	_, state = f.Take()
	if state != Drained {
		t.Fatalf("Take() state = %v, want Drained after over-depth offer skipped", state)
	}

	if st.Snapshot().SkippedDepth != 1 {
		t.Errorf("SkippedDepth = %d, want 1", st.Snapshot().SkippedDepth)
	}
}

func TestOffer_AllowedHostBoundary(t *testing.T) {
	st := stats.New()
	f := New(Config{Unbounded: true, AllowedHost: "example.com"}, st)
	f.Seed("https://example.com/")
	entry, _ := f.Take()

	f.Offer([]string{"https://example.com/same", "https://other.com/off-limits"}, entry.URL, entry.Depth)
	f.Done(entry.URL)

	next, state := f.Take()
	if state != Ready || normalize.Host(next.URL) != "example.com" {
		t.Fatalf("Take() = %v, %v, want the same-host entry", next, state)
	}
	f.Done(next.URL)

	_, state = f.Take()
	if state != Drained {
		t.Fatalf("Take() state = %v, want Drained (off-host link skipped)", state)
	}

	if st.Snapshot().SkippedDomain != 1 {
		t.Errorf("SkippedDomain = %d, want 1", st.Snapshot().SkippedDomain)
	}
}

func TestOffer_SameCanonicalTwiceInOneOfferDedups(t *testing.T) {
	st := stats.New()
	f := New(Config{Unbounded: true}, st)
	f.Seed("https://example.com/")
	entry, _ := f.Take()

	f.Offer([]string{"https://example.com/x", "https://example.com/x"}, entry.URL, entry.Depth)
	f.Done(entry.URL)

	first, state := f.Take()
	if state != Ready {
		t.Fatalf("Take() state = %v, want Ready", state)
	}
	f.Done(first.URL)

	_, state = f.Take()
	if state != Drained {
		t.Fatalf("Take() state = %v, want Drained (duplicate link deduped)", state)
	}
	if st.Snapshot().SkippedVisited != 1 {
		t.Errorf("SkippedVisited = %d, want 1", st.Snapshot().SkippedVisited)
	}
}

func TestTake_DequeuedAtMostOnce(t *testing.T) {
	f := New(Config{Unbounded: true}, nil)
	f.Seed("https://example.com/")
	entry, _ := f.Take()
	f.Offer([]string{"https://example.com/a", "https://example.com/b"}, entry.URL, entry.Depth)
	f.Done(entry.URL)

	seen := make(map[string]int)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				e, state := f.Take()
				if state != Ready {
					return
				}
				mu.Lock()
				seen[e.URL]++
				mu.Unlock()
				f.Done(e.URL)
			}
		}()
	}
	wg.Wait()

	for url, count := range seen {
		if count != 1 {
			t.Errorf("url %q taken %d times, want 1", url, count)
		}
	}
}

func TestTake_BlocksWhileInFlightUntilOffer(t *testing.T) {
	f := New(Config{Unbounded: true}, nil)
	f.Seed("https://example.com/")
	entry, _ := f.Take() // in_flight = 1, queue empty

	done := make(chan State, 1)
	go func() {
		_, state := f.Take() // should block: queue empty, in_flight > 0
		done <- state
	}()

	f.Offer([]string{"https://example.com/child"}, entry.URL, entry.Depth)
	child := <-done
	if child != Ready {
		t.Fatalf("blocked Take() woke with state = %v, want Ready", child)
	}
}

func TestCancel_UnblocksWaiters(t *testing.T) {
	f := New(Config{Unbounded: true}, nil)
	f.Seed("https://example.com/")
	f.Take() // in_flight = 1, queue empty

	done := make(chan State, 1)
	go func() {
		_, state := f.Take()
		done <- state
	}()

	f.Cancel()
	state := <-done
	if state != Canceled {
		t.Fatalf("Take() after Cancel() = %v, want Canceled", state)
	}
}
