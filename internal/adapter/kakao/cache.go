package kakao

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/couchcryptid/forecast-resolver/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache of place lookups.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string) (*domain.Place, error) {
	key := strings.TrimSpace(query)
	if place, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return &place, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	place, err := c.inner.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}
	// Only matches are cached so a "not found" can succeed later.
	if place != nil {
		c.cache.put(key, *place)
	}
	return place, nil
}

// lruCache is a bounded, mutex-guarded map of places with least-recently-used
// eviction.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	index      map[string]*list.Element
}

type cacheEntry struct {
	key   string
	place domain.Place
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		index:      make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (domain.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return domain.Place{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).place, true
}

func (c *lruCache) put(key string, place domain.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		el.Value.(*cacheEntry).place = place
		c.order.MoveToFront(el)
		return
	}

	c.index[key] = c.order.PushFront(&cacheEntry{key: key, place: place})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
