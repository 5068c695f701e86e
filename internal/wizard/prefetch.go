package wizard

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/slatecli/slate/internal/log"
)

const defaultPrefetchLimit = 4

// FetchFunc loads one scope's rows from the tracker.
type FetchFunc func(ctx context.Context) (any, error)

// Fetch describes one prefetchable scope. Then, when set, runs after
// a successful commit and may schedule follow-up fetches; it runs on
// the fetch goroutine.
type Fetch struct {
	Scope string
	Run   FetchFunc
	Then  func(rows any)
}

// Prefetcher opportunistically warms the option cache while the user
// is still on an earlier step. Fetches are best-effort: failures and
// drops are invisible to the user because the resolver falls back to
// a live query on any cache miss.
type Prefetcher struct {
	cache  *Cache
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	generation atomic.Uint64

	mu       sync.Mutex
	inflight map[string]bool
}

// NewPrefetcher builds a prefetcher over the cache with at most limit
// concurrent fetches. Its background work stops when ctx ends or
// Close is called.
func NewPrefetcher(ctx context.Context, cache *Cache, limit int, logger *log.Logger) *Prefetcher {
	if limit <= 0 {
		limit = defaultPrefetchLimit
	}
	ctx, cancel := context.WithCancel(ctx)

	group := new(errgroup.Group)
	group.SetLimit(limit)

	return &Prefetcher{
		cache:    cache,
		logger:   logger.With("component", "prefetch"),
		ctx:      ctx,
		cancel:   cancel,
		group:    group,
		inflight: make(map[string]bool),
	}
}

// Ensure schedules a fetch for the scope unless a fresh cache entry
// exists or the same scope is already in flight. It never blocks:
// when the pool is saturated the fetch is dropped.
func (p *Prefetcher) Ensure(f Fetch) {
	if f.Scope == "" || f.Run == nil {
		return
	}
	if _, ok := p.cache.Get(f.Scope); ok {
		return
	}

	p.mu.Lock()
	if p.inflight[f.Scope] {
		p.mu.Unlock()
		return
	}
	p.inflight[f.Scope] = true
	p.mu.Unlock()

	generation := p.generation.Load()

	started := p.group.TryGo(func() error {
		defer p.finish(f.Scope)

		rows, err := f.Run(p.ctx)
		if err != nil {
			p.logger.Debug("prefetch failed", "scope", f.Scope, "error", err)
			return nil
		}
		if !p.commit(f.Scope, generation, rows) {
			return nil
		}
		if f.Then != nil {
			f.Then(rows)
		}
		return nil
	})
	if !started {
		p.finish(f.Scope)
		p.logger.Debug("prefetch dropped, pool saturated", "scope", f.Scope)
	}
}

// commit stores the rows unless the session moved on while the fetch
// was in flight. A superseded completion is discarded silently.
func (p *Prefetcher) commit(scope string, generation uint64, rows any) bool {
	if p.generation.Load() != generation {
		p.logger.Debug("prefetch superseded", "scope", scope)
		return false
	}
	p.cache.Put(scope, rows)
	return true
}

func (p *Prefetcher) finish(scope string) {
	p.mu.Lock()
	delete(p.inflight, scope)
	p.mu.Unlock()
}

// Invalidate marks every in-flight fetch stale so its completion
// becomes a no-op.
func (p *Prefetcher) Invalidate() {
	p.generation.Add(1)
}

// Close invalidates outstanding fetches, cancels them, and waits for
// the pool to drain.
func (p *Prefetcher) Close() {
	p.Invalidate()
	p.cancel()
	p.group.Wait() //nolint:errcheck // fetch errors never propagate
}
