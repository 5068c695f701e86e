package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/slatecli/slate/internal/tracker"
)

func newTestPrefetcher(t *testing.T, limit int) (*Prefetcher, *Cache) {
	t.Helper()
	cache := newTestCache(t)
	p := NewPrefetcher(context.Background(), cache, limit, testLogger())
	return p, cache
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestPrefetcherCommitsRows(t *testing.T) {
	p, cache := newTestPrefetcher(t, 2)
	defer p.Close()

	done := make(chan struct{})
	p.Ensure(Fetch{
		Scope: scopeAll(tracker.KindCreative),
		Run: func(ctx context.Context) (any, error) {
			return []tracker.EntityRef{{ID: "CR_1", Label: "Lila Moreno"}}, nil
		},
		Then: func(rows any) { close(done) },
	})

	waitClosed(t, done, "fetch commit")
	rows, ok := cached[[]tracker.EntityRef](cache, scopeAll(tracker.KindCreative))
	if !ok || len(rows) != 1 {
		t.Errorf("cache rows = %v, %v; want the fetched list", rows, ok)
	}
}

func TestPrefetcherSkipsFreshScope(t *testing.T) {
	p, cache := newTestPrefetcher(t, 2)

	scope := scopeAll(tracker.KindCreative)
	cache.Put(scope, []tracker.EntityRef{{ID: "CR_1"}})

	var calls atomic.Int32
	p.Ensure(Fetch{
		Scope: scope,
		Run: func(ctx context.Context) (any, error) {
			calls.Add(1)
			return nil, nil
		},
	})
	p.Close()

	if calls.Load() != 0 {
		t.Errorf("fetch ran %d times for a fresh scope, want 0", calls.Load())
	}
}

func TestPrefetcherDeduplicatesConcurrentEnsures(t *testing.T) {
	p, _ := newTestPrefetcher(t, 4)

	scope := scopeAll(tracker.KindManager)
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Ensure(Fetch{
				Scope: scope,
				Run: func(ctx context.Context) (any, error) {
					calls.Add(1)
					return []tracker.EntityRef{{ID: "MG_1"}}, nil
				},
			})
		}()
	}
	wg.Wait()
	p.Close()

	if calls.Load() != 1 {
		t.Errorf("fetch ran %d times across 20 ensures, want 1", calls.Load())
	}
}

func TestPrefetcherInvalidateDiscardsInflightCommit(t *testing.T) {
	p, cache := newTestPrefetcher(t, 2)

	scope := scopeNeeds("PRJ_1")
	gate := make(chan struct{})
	committed := make(chan struct{})

	p.Ensure(Fetch{
		Scope: scope,
		Run: func(ctx context.Context) (any, error) {
			<-gate
			return []tracker.Need{{ID: "PN_STALE"}}, nil
		},
		Then: func(rows any) { close(committed) },
	})

	p.Invalidate()
	close(gate)
	p.Close()

	select {
	case <-committed:
		t.Error("superseded fetch still committed")
	default:
	}
	if _, ok := cache.Get(scope); ok {
		t.Error("stale rows landed in the cache after invalidation")
	}
}

func TestPrefetcherDropsWhenPoolSaturated(t *testing.T) {
	p, cache := newTestPrefetcher(t, 1)

	gate := make(chan struct{})
	p.Ensure(Fetch{
		Scope: scopeAll(tracker.KindCreative),
		Run: func(ctx context.Context) (any, error) {
			<-gate
			return []tracker.EntityRef{{ID: "CR_1"}}, nil
		},
	})

	var calls atomic.Int32
	dropped := scopeAll(tracker.KindExternalRep)
	p.Ensure(Fetch{
		Scope: dropped,
		Run: func(ctx context.Context) (any, error) {
			calls.Add(1)
			return nil, nil
		},
	})

	// The drop must release the in-flight mark so a later attempt can
	// schedule the scope again.
	p.mu.Lock()
	stillMarked := p.inflight[dropped]
	p.mu.Unlock()

	close(gate)
	p.Close()

	if calls.Load() != 0 {
		t.Errorf("dropped fetch ran %d times, want 0", calls.Load())
	}
	if stillMarked {
		t.Error("dropped scope left marked in flight")
	}
	if _, ok := cache.Get(dropped); ok {
		t.Error("dropped scope landed in the cache")
	}
}

func TestPrefetcherFetchErrorLeavesCacheEmpty(t *testing.T) {
	p, cache := newTestPrefetcher(t, 2)

	scope := scopeAll(tracker.KindWritingSample)
	p.Ensure(Fetch{
		Scope: scope,
		Run: func(ctx context.Context) (any, error) {
			return nil, context.DeadlineExceeded
		},
	})
	p.Close()

	if _, ok := cache.Get(scope); ok {
		t.Error("failed fetch landed in the cache")
	}
}

func TestPrefetcherCloseCancelsInflight(t *testing.T) {
	p, cache := newTestPrefetcher(t, 1)

	scope := scopeAll(tracker.KindCreative)
	started := make(chan struct{})
	p.Ensure(Fetch{
		Scope: scope,
		Run: func(ctx context.Context) (any, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	waitClosed(t, started, "fetch start")
	p.Close()

	if _, ok := cache.Get(scope); ok {
		t.Error("canceled fetch landed in the cache")
	}
}

func TestPrefetcherThenChainsFollowUps(t *testing.T) {
	p, cache := newTestPrefetcher(t, 2)
	defer p.Close()

	execDone := make(chan struct{})
	p.Ensure(Fetch{
		Scope: scopeCompanyContext("PRJ_1"),
		Run: func(ctx context.Context) (any, error) {
			return tracker.CompanyContext{
				Networks: []tracker.CompanyRef{company("NW_1", "Meridian")},
			}, nil
		},
		Then: func(rows any) {
			ctxt := rows.(tracker.CompanyContext)
			for _, company := range ctxt.All() {
				companyID := company.ID
				p.Ensure(Fetch{
					Scope: scopeExecutives(companyID),
					Run: func(ctx context.Context) (any, error) {
						return []tracker.EntityRef{{ID: "EX_1", Label: "Dana Reyes"}}, nil
					},
					Then: func(rows any) { close(execDone) },
				})
			}
		},
	})

	waitClosed(t, execDone, "chained executive fetch")
	if _, ok := cached[[]tracker.EntityRef](cache, scopeExecutives("NW_1")); !ok {
		t.Error("chained fetch did not land in the cache")
	}
}
