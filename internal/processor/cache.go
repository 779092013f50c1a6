package processor

import (
	"container/list"
	"sync"

	"mobility-insights-go/internal/aggregator"
	"mobility-insights-go/internal/types"
)

type cacheKey struct {
	kind    aggregator.SelectorKind
	country string
	region  string
}

func keyOf(s aggregator.Selector) cacheKey {
	return cacheKey{kind: s.Kind, country: s.Country, region: s.Region}
}

type cacheEntry struct {
	key cacheKey
	agg *types.CountryAggregate
}

// aggregateCache is a small LRU of resolved aggregates. A nil aggregate is
// cached too, since "no data" is a stable answer for a fixed store.
type aggregateCache struct {
	mu    sync.Mutex
	size  int
	order *list.List
	items map[cacheKey]*list.Element
}

func newAggregateCache(size int) *aggregateCache {
	return &aggregateCache{
		size:  size,
		order: list.New(),
		items: map[cacheKey]*list.Element{},
	}
}

func (c *aggregateCache) get(k cacheKey) (*types.CountryAggregate, bool) {
	if c.size <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[k]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).agg, true
}

func (c *aggregateCache) put(k cacheKey, agg *types.CountryAggregate) {
	if c.size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[k]; ok {
		el.Value.(*cacheEntry).agg = agg
		c.order.MoveToFront(el)
		return
	}
	c.items[k] = c.order.PushFront(&cacheEntry{key: k, agg: agg})
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *aggregateCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
