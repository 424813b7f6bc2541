package cache

import (
	"sync"
	"time"
)

// DefaultPosterURLBuffer is subtracted from a signed URL's expiry so a
// cached URL is never served moments before it stops working.
const DefaultPosterURLBuffer = 60 * time.Second

type posterEntry struct {
	url       string
	expiresAt time.Time
}

// PosterURLCache caches signed poster URLs by storage path. Entries
// are treated as expired a buffer ahead of their real expiry.
type PosterURLCache struct {
	mu      sync.RWMutex
	buffer  time.Duration
	entries map[string]posterEntry
}

func NewPosterURLCache(buffer time.Duration) *PosterURLCache {
	if buffer <= 0 {
		buffer = DefaultPosterURLBuffer
	}
	return &PosterURLCache{
		buffer:  buffer,
		entries: make(map[string]posterEntry),
	}
}

func (c *PosterURLCache) Get(path string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt.Add(-c.buffer)) {
		c.mu.Lock()
		delete(c.entries, path)
		c.mu.Unlock()
		return "", false
	}
	return entry.url, true
}

func (c *PosterURLCache) Put(path, url string, expiresAt time.Time) {
	c.mu.Lock()
	c.entries[path] = posterEntry{url: url, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Len returns the number of cached URLs, expired or not.
func (c *PosterURLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
