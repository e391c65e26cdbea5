package suggest

import (
	"container/list"
	"sync"
)

// DefaultCacheSize bounds the prefix cache. The cache only needs to cover
// the handful of prefixes a user cycles through while typing one word.
const DefaultCacheSize = 25

// Cache is a small LRU cache mapping prefix to suggestions. It avoids
// redundant engine calls while the user is still typing the same prefix.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	prefix      string
	suggestions []Suggestion
}

// NewCache creates an LRU cache with the given maximum size.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get retrieves cached suggestions for a prefix. The second return value
// distinguishes a cached empty list from a miss.
func (c *Cache) Get(prefix string) ([]Suggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[prefix]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)

	entry := elem.Value.(*cacheEntry) //nolint:errcheck // list only contains *cacheEntry
	out := make([]Suggestion, len(entry.suggestions))
	copy(out, entry.suggestions)
	return out, true
}

// Set stores suggestions for a prefix, evicting the least recently used
// entry at capacity.
func (c *Cache) Set(prefix string, suggestions []Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]Suggestion, len(suggestions))
	copy(stored, suggestions)

	if elem, ok := c.items[prefix]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).suggestions = stored //nolint:errcheck // list only contains *cacheEntry
		return
	}

	if c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).prefix) //nolint:errcheck // list only contains *cacheEntry
		}
	}

	c.items[prefix] = c.lru.PushFront(&cacheEntry{prefix: prefix, suggestions: stored})
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached prefixes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
