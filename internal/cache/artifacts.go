package cache

import "sync"

// ArtifactCache maps a track id to the Telegram file_id of audio already sent
// once, so the same file can be sent again without downloading it.
type ArtifactCache struct {
	mu      sync.RWMutex
	handles map[string]string
}

// NewArtifactCache creates an empty ArtifactCache.
func NewArtifactCache() *ArtifactCache {
	return &ArtifactCache{handles: make(map[string]string)}
}

// Get returns the handle of audio already sent for id.
func (c *ArtifactCache) Get(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[id]
	return h, ok
}

// Put ignores empty handles.
func (c *ArtifactCache) Put(id, handle string) {
	if handle == "" {
		return
	}
	c.mu.Lock()
	c.handles[id] = handle
	c.mu.Unlock()
}

// Len returns the number of cached handles.
func (c *ArtifactCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}
