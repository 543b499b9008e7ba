package filter

import (
	"container/list"
	"sync"
)

// lruCache is a thread-safe LRU cache for compiled filters, keyed by the
// source expression.
type lruCache struct {
	capacity int
	recency  *list.List
	entries  map[string]*list.Element
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value any
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		recency:  list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get retrieves a value and marks it most recently used.
func (c *lruCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	c.recency.MoveToFront(node)
	return node.Value.(*cacheEntry).value, true
}

// Put adds or updates a value, evicting the least recently used entry when
// the cache is full.
func (c *lruCache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.entries[key]; exists {
		c.recency.MoveToFront(node)
		node.Value.(*cacheEntry).value = value
		return
	}

	node := c.recency.PushFront(&cacheEntry{key: key, value: value})
	c.entries[key] = node

	if c.recency.Len() > c.capacity {
		oldest := c.recency.Back()
		if oldest != nil {
			c.recency.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Clear removes all entries.
func (c *lruCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.recency.Init()
}

// Size returns the number of cached entries.
func (c *lruCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.recency.Len()
}
