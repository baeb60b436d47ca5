package intelligence

import (
	"context"
	"sync"
	"time"

	"github.com/portiq/assist-go/internal/debounce"
	"github.com/portiq/assist-go/internal/logger"
	"github.com/portiq/assist-go/internal/metrics"
)

// Snapshot is the watcher's externally visible state.
type Snapshot struct {
	Data    *Combined
	Loading bool
	Err     error
}

type cacheEntry struct {
	data      *Combined
	fetchedAt time.Time
}

// Watcher turns a stream of parameter updates into at most one combined
// fetch per settled tuple. Updates are debounced; results are cached per
// tuple for the TTL; a failed fetch is retried once before the error
// surfaces. A parameter change while a fetch is in flight supersedes it:
// the stale result completes but is discarded, never rendered.
type Watcher struct {
	mu       sync.Mutex
	fetcher  Fetcher
	ttl      time.Duration
	cache    map[string]cacheEntry
	snap     Snapshot
	gen      int
	onChange func(Snapshot)
	deb      *debounce.Debouncer[Params]
	m        *metrics.Metrics
	now      func() time.Time
}

// NewWatcher creates a Watcher. m may be nil.
func NewWatcher(fetcher Fetcher, debounceInterval, ttl time.Duration, m *metrics.Metrics) *Watcher {
	w := &Watcher{
		fetcher: fetcher,
		ttl:     ttl,
		cache:   make(map[string]cacheEntry),
		m:       m,
		now:     time.Now,
	}
	w.deb = debounce.New(debounceInterval, w.settled)
	return w
}

// OnChange registers a callback invoked after every state change. Called
// without the watcher lock held.
func (w *Watcher) OnChange(fn func(Snapshot)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Update feeds a new parameter tuple. The fetch fires only after the input
// settles for the debounce interval.
func (w *Watcher) Update(p Params) {
	w.deb.Set(p)
}

// Snapshot returns the current state.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snap
}

// Close cancels any pending debounce timer.
func (w *Watcher) Close() {
	w.deb.Stop()
}

func (w *Watcher) settled(p Params) {
	w.mu.Lock()
	w.gen++
	myGen := w.gen

	if !p.Active() {
		// Disabled until a delivery port is set: no fetch, not loading.
		w.snap = Snapshot{}
		w.notifyLocked()
		return
	}

	key := p.Key()
	if e, ok := w.cache[key]; ok && w.now().Sub(e.fetchedAt) < w.ttl {
		if w.m != nil {
			w.m.IntelligenceCacheHits.Inc()
		}
		w.snap = Snapshot{Data: e.data}
		w.notifyLocked()
		return
	}

	w.snap = Snapshot{Loading: true}
	w.notifyLocked()

	data, err := w.fetchWithRetry(p)

	w.mu.Lock()
	if w.gen != myGen {
		// Superseded by fresher parameters; discard this result.
		w.mu.Unlock()
		return
	}
	if err != nil {
		logger.L.Warn("intelligence fetch failed", "port", p.DeliveryPort, "error", err)
		w.snap = Snapshot{Err: err}
	} else {
		w.cache[key] = cacheEntry{data: data, fetchedAt: w.now()}
		w.snap = Snapshot{Data: data}
	}
	w.notifyLocked()
}

// fetchWithRetry tries the fetch at most twice.
func (w *Watcher) fetchWithRetry(p Params) (*Combined, error) {
	data, err := w.fetcher.FetchCombined(context.Background(), p)
	if err == nil {
		w.observe("success")
		return data, nil
	}
	w.observe("error")

	data, err = w.fetcher.FetchCombined(context.Background(), p)
	if err != nil {
		w.observe("error")
		return nil, err
	}
	w.observe("success")
	return data, nil
}

func (w *Watcher) observe(outcome string) {
	if w.m != nil {
		w.m.IntelligenceFetchesTotal.WithLabelValues(outcome).Inc()
	}
}

// notifyLocked invokes onChange and releases the lock.
func (w *Watcher) notifyLocked() {
	fn := w.onChange
	snap := w.snap
	w.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
