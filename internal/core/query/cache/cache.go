// Package cache provides an LRU cache of compiled queries.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
	HitRate   float64
}

// LRUCache holds compiled queries keyed by Key, with TTL support.
type LRUCache struct {
	mu         sync.Mutex
	data       map[string]*cacheNode
	maxSize    int
	defaultTTL time.Duration
	head       *cacheNode
	tail       *cacheNode
	stats      Stats
	now        func() time.Time
}

// cacheNode represents a node in the doubly-linked list for LRU
type cacheNode struct {
	key       string
	value     *domain.CompiledQuery
	expiresAt time.Time
	prev      *cacheNode
	next      *cacheNode
}

// NewLRUCache creates a new LRU cache. A maxSize below one is treated as one; a zero TTL
// keeps entries until they are evicted.
func NewLRUCache(maxSize int, defaultTTL time.Duration) *LRUCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache{
		data:       make(map[string]*cacheNode),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		stats:      Stats{MaxSize: maxSize},
		now:        time.Now,
	}
}

// Key builds the cache key of a query fingerprint for one dialect.
func Key(dialect domain.SQLDialect, model, fingerprint string) string {
	return string(dialect) + ":" + model + ":" + fingerprint
}

// Get retrieves a compiled query from the cache
func (c *LRUCache) Get(key string) (*domain.CompiledQuery, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	if !node.expiresAt.IsZero() && c.now().After(node.expiresAt) {
		c.removeNode(node)
		c.stats.Misses++
		return nil, false
	}

	c.moveToFront(node)
	c.stats.Hits++
	return node.value, true
}

// Set stores a compiled query, evicting the least recently used entry when full.
func (c *LRUCache) Set(key string, value *domain.CompiledQuery) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.defaultTTL > 0 {
		expiresAt = c.now().Add(c.defaultTTL)
	}

	if node, exists := c.data[key]; exists {
		node.value = value
		node.expiresAt = expiresAt
		c.moveToFront(node)
		return
	}

	if len(c.data) >= c.maxSize {
		c.evictLRU()
		c.stats.Evictions++
	}

	node := &cacheNode{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(node)
	c.data[key] = node
}

// InvalidatePattern removes all keys matching a pattern such as "sqlite:*:*".
func (c *LRUCache) InvalidatePattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, node := range c.data {
		if matchesPattern(key, pattern) {
			c.removeNode(node)
		}
	}
}

// Clear removes all entries and resets statistics.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*cacheNode)
	c.head = nil
	c.tail = nil
	c.stats = Stats{MaxSize: c.maxSize}
}

// GetStats returns cache statistics
func (c *LRUCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.data)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

func (c *LRUCache) addToFront(node *cacheNode) {
	node.prev = nil
	node.next = c.head
	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}
}

func (c *LRUCache) moveToFront(node *cacheNode) {
	if node == c.head {
		return
	}
	c.unlink(node)
	c.addToFront(node)
}

func (c *LRUCache) unlink(node *cacheNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
}

// removeNode unlinks the node and drops it from the index.
func (c *LRUCache) removeNode(node *cacheNode) {
	c.unlink(node)
	delete(c.data, node.key)
}

func (c *LRUCache) evictLRU() {
	if c.tail == nil {
		return
	}
	c.removeNode(c.tail)
}

// matchesPattern compares colon separated parts, "*" matching any single part.
func matchesPattern(key, pattern string) bool {
	if pattern == "*" {
		return true
	}

	parts := strings.Split(pattern, ":")
	keyParts := strings.SplitN(key, ":", len(parts))
	if len(parts) != len(keyParts) {
		return false
	}
	for i, part := range parts {
		if part != "*" && part != keyParts[i] {
			return false
		}
	}
	return true
}
