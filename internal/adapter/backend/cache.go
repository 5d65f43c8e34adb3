package backend

import (
	"context"
	"sync"

	"github.com/hluleko/smart-travel-planner/internal/domain"
	"github.com/hluleko/smart-travel-planner/internal/observability"
)

// DestinationAPI is the subset of the backend used for destination lookups.
type DestinationAPI interface {
	GetDestinationByID(ctx context.Context, token string, destID domain.ID) (domain.Destination, error)
	DeleteDestination(ctx context.Context, token string, destID domain.ID) error
}

// CachedDestinations wraps destination lookups with an in-memory LRU cache.
// Entries are keyed per token so one user never sees another's cached record.
type CachedDestinations struct {
	inner   DestinationAPI
	cache   *lruCache[domain.Destination]
	metrics *observability.Metrics
}

// NewCachedDestinations creates a cache decorator around a destination API.
func NewCachedDestinations(inner DestinationAPI, maxEntries int, metrics *observability.Metrics) *CachedDestinations {
	return &CachedDestinations{
		inner:   inner,
		cache:   newLRUCache[domain.Destination](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedDestinations) GetDestinationByID(ctx context.Context, token string, destID domain.ID) (domain.Destination, error) {
	key := cacheKey(token, destID)
	if dest, ok := c.cache.get(key); ok {
		c.metrics.DestinationCache.WithLabelValues("hit").Inc()
		return dest, nil
	}
	c.metrics.DestinationCache.WithLabelValues("miss").Inc()

	dest, err := c.inner.GetDestinationByID(ctx, token, destID)
	if err != nil {
		return dest, err
	}
	c.cache.put(key, dest)
	return dest, nil
}

// DeleteDestination deletes upstream and drops the cached entry on success.
func (c *CachedDestinations) DeleteDestination(ctx context.Context, token string, destID domain.ID) error {
	if err := c.inner.DeleteDestination(ctx, token, destID); err != nil {
		return err
	}
	c.cache.delete(cacheKey(token, destID))
	return nil
}

func cacheKey(token string, id domain.ID) string {
	return token + "|" + id.String()
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.remove(e)
	}
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
