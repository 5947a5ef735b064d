package crawler

import "sync"

// visitTracker provides thread-safe visited URL tracking. MarkIfNew is the
// single synchronization point that guards against duplicate fetches when the
// same URL appears on two discovery paths.
type visitTracker struct {
	seen sync.Map
}

func newVisitTracker() *visitTracker {
	return &visitTracker{}
}

// MarkIfNew stores the URL if it has not been seen before and returns true.
func (t *visitTracker) MarkIfNew(url string) bool {
	if url == "" {
		return false
	}
	_, loaded := t.seen.LoadOrStore(url, struct{}{})
	return !loaded
}

// Seen reports whether the URL has already been dispatched for fetching.
func (t *visitTracker) Seen(url string) bool {
	_, ok := t.seen.Load(url)
	return ok
}

// frontier holds discovered, not-yet-fetched URLs with set semantics. It is
// only touched from the collector loop, so it needs no locking of its own.
type frontier struct {
	urls map[string]struct{}
}

func newFrontier() *frontier {
	return &frontier{urls: make(map[string]struct{})}
}

func (f *frontier) Add(url string) {
	if url == "" {
		return
	}
	f.urls[url] = struct{}{}
}

func (f *frontier) Len() int {
	return len(f.urls)
}

// Take removes and returns up to n URLs. Order among same-batch URLs is
// unspecified.
func (f *frontier) Take(n int) []string {
	if n <= 0 {
		return nil
	}
	batch := make([]string, 0, min(n, len(f.urls)))
	for url := range f.urls {
		if len(batch) == n {
			break
		}
		batch = append(batch, url)
		delete(f.urls, url)
	}
	return batch
}
