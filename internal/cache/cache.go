// Package cache holds fetched document revisions in memory.
//
// Revisions are immutable once created in Outline, so a cached revision is identical to a fresh fetch.
// The cache must not be used for mutable entities such as documents, comments or collections.
package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"

	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

// Key identifies a cached revision.
type Key struct {
	// Scope partitions entries per credential so callers never see revisions fetched with another key.
	Scope string

	// DocumentID may be empty when the caller only knows the revision.
	DocumentID string

	RevisionID string
}

func (k Key) String() string {
	return fmt.Sprintf("%q/%q/%q", k.Scope, k.DocumentID, k.RevisionID)
}

// Entry is a cached revision.
type Entry struct {
	Revision outline.Revision

	// FetchedAt is when the revision was fetched from Outline.
	FetchedAt time.Time

	// Seq increases monotonically with every fetch stored in the cache.
	Seq uint64
}

// FetchFunc fetches a revision on a cache miss.
type FetchFunc func(ctx context.Context) (outline.Revision, error)

// Stats reports cache usage. Misses counts fetches that stored an entry.
type Stats struct {
	Entries    int    `json:"entries"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	MaxEntries int    `json:"maxEntries"`
}

// Cache is a concurrency-safe revision cache.
// NewCache should be used to create instances of Cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]Entry
	seq     uint64
	hits    uint64
	misses  uint64

	// group collapses concurrent fetches of the same key into one call.
	group singleflight.Group

	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	logger     hclog.Logger
}

// NewCache creates a new revision cache.
func NewCache(logger hclog.Logger, opts ...Option) (*Cache, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Cache{
		entries:    make(map[Key]Entry),
		maxEntries: options.maxEntries,
		ttl:        options.ttl,
		now:        options.now,
		logger:     logger.Named("cache"),
	}, nil
}

// fetchResult is shared by every caller waiting on one fetch.
type fetchResult struct {
	entry Entry

	// cached is true when another caller stored the entry before the fetch started.
	cached bool
}

// GetOrFetch returns the cached entry for key, or calls fetch, stores its result and returns it.
// hit reports whether the entry came from the cache. Fetch errors are returned and never cached.
//
// Concurrent misses for the same key usually share one fetch. At-most-one fetch is best effort:
// an entry evicted between calls is fetched again.
//
// The shared fetch ignores cancellation of the caller that started it, each caller returns as soon
// as its own ctx is done. fetch must bound itself, e.g. through the Outline client's call timeout.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) (Entry, bool, error) {
	if fetch == nil {
		return Entry{}, false, fmt.Errorf("fetch function cannot be nil")
	}

	if e, ok := c.get(key); ok {
		return e, true, nil
	}

	return c.fetchShared(ctx, key, fetch)
}

// fetchShared joins or starts the single fetch for key.
func (c *Cache) fetchShared(ctx context.Context, key Key, fetch FetchFunc) (Entry, bool, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		// Another caller may have stored the entry while we waited.
		if e, ok := c.peek(key); ok {
			return fetchResult{entry: e, cached: true}, nil
		}

		c.logger.Debug("Cache miss, fetching revision", "document", key.DocumentID, "revision", key.RevisionID)
		rev, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		e := c.store(key, rev)
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()

		return fetchResult{entry: e}, nil
	})

	select {
	case <-ctx.Done():
		return Entry{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Entry{}, false, res.Err
		}

		r := res.Val.(fetchResult)
		if r.cached {
			c.mu.Lock()
			c.hits++
			c.mu.Unlock()
		}
		return r.entry, r.cached, nil
	}
}

// Stats returns a snapshot of cache usage.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Entries:    len(c.entries),
		Hits:       c.hits,
		Misses:     c.misses,
		MaxEntries: c.maxEntries,
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if ok {
		c.hits++
	}
	return e, ok
}

func (c *Cache) peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(key)
}

// lookupLocked returns a live entry, dropping it when expired. c.mu must be held for writing.
func (c *Cache) lookupLocked(key Key) (Entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if c.ttl > 0 && c.now().Sub(e.FetchedAt) > c.ttl {
		delete(c.entries, key)
		return Entry{}, false
	}
	return e, true
}

func (c *Cache) store(key Key, rev outline.Revision) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	e := Entry{Revision: rev, FetchedAt: c.now(), Seq: c.seq}
	c.entries[key] = e

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.evictOldestLocked()
	}

	return e
}

// evictOldestLocked removes the entry with the lowest Seq. c.mu must be held for writing.
func (c *Cache) evictOldestLocked() {
	var (
		oldest Key
		minSeq uint64
		found  bool
	)
	for k, e := range c.entries {
		if !found || e.Seq < minSeq {
			oldest, minSeq, found = k, e.Seq, true
		}
	}
	if found {
		delete(c.entries, oldest)
		c.logger.Trace("Evicted revision", "revision", oldest.RevisionID)
	}
}
