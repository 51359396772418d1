package loader

import (
	"sync"

	"github.com/Faultbox/scop/pkg/formats"
)

// Cache keeps parsed models by path.
type Cache struct {
	data map[string]*Result
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*Result),
	}
}

// Get retrieves a result from cache.
func (c *Cache) Get(key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return res, ok
}

// Set stores a result in cache.
func (c *Cache) Set(key string, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = res
}

// Delete evicts a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*Result)
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached models.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Models returns every cached model, in no particular order.
func (c *Cache) Models() []*formats.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	models := make([]*formats.Model, 0, len(c.data))
	for _, res := range c.data {
		models = append(models, res.Model)
	}
	return models
}
