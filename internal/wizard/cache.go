package wizard

import (
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"

	"github.com/slatecli/slate/internal/tracker"
)

const (
	defaultCacheSize = 128
	defaultCacheTTL  = 5 * time.Minute
)

// CacheEntry is one fetched reference list (or lookup result) under
// its scope key. Entries are immutable once stored: a refetch
// replaces the whole entry, nothing merges into it.
type CacheEntry struct {
	ScopeKey  string
	FetchedAt time.Time
	Rows      any
}

// Cache is the wizard's per-session option store. The prefetcher and
// the quick-create flows write it, the resolver reads it; writes are
// always full-entry replacements keyed by scope.
type Cache struct {
	entries *lru.Cache[string, CacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache builds a cache holding at most size entries, each fresh
// for ttl. Non-positive arguments fall back to the defaults.
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	entries, err := lru.New[string, CacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create option cache: %w", err)
	}
	return &Cache{entries: entries, ttl: ttl, now: time.Now}, nil
}

// Get returns the scope's entry when present and still fresh.
// An expired entry is evicted on read and reported as a miss.
func (c *Cache) Get(scope string) (CacheEntry, bool) {
	entry, ok := c.entries.Get(scope)
	if !ok {
		return CacheEntry{}, false
	}
	if c.now().Sub(entry.FetchedAt) >= c.ttl {
		c.entries.Remove(scope)
		return CacheEntry{}, false
	}
	return entry, true
}

// Put replaces the scope's entry wholesale. The latest full fetch
// wins; partial updates do not exist.
func (c *Cache) Put(scope string, rows any) {
	c.entries.Add(scope, CacheEntry{
		ScopeKey:  scope,
		FetchedAt: c.now(),
		Rows:      rows,
	})
}

// Remove evicts one scope.
func (c *Cache) Remove(scope string) {
	c.entries.Remove(scope)
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// cached reads a fresh entry and asserts its row type. A type
// mismatch reads as a miss.
func cached[T any](c *Cache, scope string) (T, bool) {
	var zero T
	entry, ok := c.Get(scope)
	if !ok {
		return zero, false
	}
	rows, ok := entry.Rows.(T)
	if !ok {
		return zero, false
	}
	return rows, true
}

// scopeAll is the static scope of a context-free wide fetch.
func scopeAll(kind tracker.EntityKind) string {
	return string(kind) + ":all"
}

// contextScope derives a deterministic scope key for a context-
// dependent fetch: the kind plus a hash over the sorted upstream ids,
// so the same context always maps to the same entry.
func contextScope(kind string, ids ...string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	hasher := blake3.New()
	for _, id := range sorted {
		hasher.Write([]byte(id))
		hasher.Write([]byte{0})
	}
	return fmt.Sprintf("%s:%x", kind, hasher.Sum(nil))
}

func scopeCompanyContext(projectID string) string {
	return contextScope("companies", projectID)
}

func scopeExecutives(companyID string) string {
	return contextScope("executives", companyID)
}

func scopeMandates(companyID string) string {
	return contextScope("mandates", companyID)
}

func scopeNeeds(projectID string) string {
	return contextScope("needs", projectID)
}

func scopeCompany(companyID string) string {
	return contextScope("company", companyID)
}
