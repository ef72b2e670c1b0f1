package ticker

import (
	"sync"

	"headline-trader/internal/types"
)

// Cache memoizes headline to ticker resolutions for the lifetime of a run.
// Keys are normalized headline text. The first stored value for a key wins
// and is never replaced.
type Cache struct {
	mu   sync.RWMutex
	data map[string]types.TickerResolution
}

func NewCache() *Cache {
	return &Cache{data: make(map[string]types.TickerResolution)}
}

// Get returns the cached resolution for headline, if any.
func (c *Cache) Get(headline string) (types.TickerResolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.data[types.NormalizeText(headline)]
	return res, ok
}

// Put stores res under headline unless a value is already present, and
// returns the value that is cached after the call.
func (c *Cache) Put(headline string, res types.TickerResolution) types.TickerResolution {
	key := types.NormalizeText(headline)

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.data[key]; ok {
		return existing
	}
	c.data[key] = res
	return res
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]types.TickerResolution)
}
