package bridgestore

import (
	"container/list"
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/txbridge/bridge-flood-service/internal/domain"
	"github.com/txbridge/bridge-flood-service/internal/observability"
)

// CachedProvider wraps a BridgeProvider with a bounded in-memory LRU cache.
//
// Bridge records are static reference data, so hits never expire; the LRU
// bound only protects memory when the fleet of ~19k bridges exceeds the
// configured size. Concurrent misses for the same UUID collapse into a single
// underlying fetch via singleflight, so a burst of requests for an uncached
// bridge costs one object-store read.
type CachedProvider struct {
	inner   domain.BridgeProvider
	cache   *lruCache
	group   singleflight.Group
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner domain.BridgeProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Get returns the cached record or fetches it through the inner provider.
// Only successful lookups are cached: a transient failure or an unknown UUID
// can be retried by a later request.
func (c *CachedProvider) Get(ctx context.Context, bridgeUUID string) (*domain.BridgeRecord, error) {
	if rec, ok := c.cache.get(bridgeUUID); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return rec, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err, shared := c.group.Do(bridgeUUID, func() (any, error) {
		rec, err := c.inner.Get(ctx, bridgeUUID)
		if err != nil {
			return nil, err
		}
		c.cache.put(bridgeUUID, rec)
		return rec, nil
	})
	if shared {
		c.metrics.SharedFetches.Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(*domain.BridgeRecord), nil
}

// lruCache holds bridge records under a fixed entry bound, evicting the
// record that has gone longest without a lookup.
type lruCache struct {
	maxEntries int

	mu    sync.Mutex
	order *list.List // front = most recently used
	byKey map[string]*list.Element
}

type cacheEntry struct {
	key string
	rec *domain.BridgeRecord
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		byKey:      make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (*domain.BridgeRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).rec, true
}

func (c *lruCache) put(key string, rec *domain.BridgeRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		el.Value.(*cacheEntry).rec = rec
		c.order.MoveToFront(el)
		return
	}

	c.byKey[key] = c.order.PushFront(&cacheEntry{key: key, rec: rec})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byKey, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byKey)
}
