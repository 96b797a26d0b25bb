// Package cache holds the bot's in-memory lookup state: the last search of
// every user, display metadata per track and the handles of already delivered
// audio. Everything lives for the lifetime of the process.
package cache

import (
	"sync"
	"sync/atomic"

	"ytmusicbot/internal/catalog"
)

// SearchResult is a user's last search. It is never modified after Put.
type SearchResult struct {
	Query      string
	Tracks     []catalog.Track
	Generation uint64
}

// ResultCache stores one SearchResult per user. A new search replaces the old
// one; Generation tells a page button of the old search from one of the new.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[int64]SearchResult
	gen     atomic.Uint64
}

// NewResultCache creates an empty ResultCache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[int64]SearchResult)}
}

// Put overwrites the user's entry and returns its generation.
func (c *ResultCache) Put(userID int64, query string, tracks []catalog.Track) uint64 {
	gen := c.gen.Add(1)
	owned := make([]catalog.Track, len(tracks))
	copy(owned, tracks)

	c.mu.Lock()
	c.entries[userID] = SearchResult{Query: query, Tracks: owned, Generation: gen}
	c.mu.Unlock()
	return gen
}

// Get returns the user's last search, whatever its generation.
func (c *ResultCache) Get(userID int64) (SearchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[userID]
	return r, ok
}

// Lookup returns the user's result only if it is still the given generation.
func (c *ResultCache) Lookup(userID int64, gen uint64) (SearchResult, bool) {
	r, ok := c.Get(userID)
	if !ok || r.Generation != gen {
		return SearchResult{}, false
	}
	return r, true
}

// Len returns the number of users with a stored search.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
