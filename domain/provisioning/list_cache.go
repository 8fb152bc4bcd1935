package provisioning

import "sync"

// ListInfo is the metadata of a list ensured during a run.
type ListInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Created bool   `json:"created"`
}

// ListCache is an append-only record of the lists seen in one run.
type ListCache struct {
	mu    sync.RWMutex
	lists []ListInfo
}

// NewListCache creates an empty cache.
func NewListCache() *ListCache {
	return &ListCache{}
}

// Add appends a list.
func (c *ListCache) Add(info ListInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = append(c.lists, info)
}

// FindByTitle returns every cached list with exactly this title.
func (c *ListCache) FindByTitle(title string) []ListInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []ListInfo
	for _, l := range c.lists {
		if l.Title == title {
			out = append(out, l)
		}
	}
	return out
}

// All returns a copy of the cached lists in insertion order.
func (c *ListCache) All() []ListInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ListInfo, len(c.lists))
	copy(out, c.lists)
	return out
}

// Len returns the number of cached lists.
func (c *ListCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lists)
}
