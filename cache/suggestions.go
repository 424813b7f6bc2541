package cache

import (
	"sync"
	"time"

	"media-tracker-go/logcolors"
	"media-tracker-go/services/enrich"

	log "github.com/sirupsen/logrus"
)

// DefaultSuggestionTTL is how long a cached suggestion set stays
// usable when the library fingerprint has not changed.
const DefaultSuggestionTTL = 12 * time.Hour

// Entry is one user's cached suggestion set, keyed by the library
// fingerprint it was generated against.
type Entry struct {
	Fingerprint string
	CreatedAt   time.Time
	Suggestions []enrich.Recommendation
}

// SuggestionCache stores per-user suggestion sets.
type SuggestionCache interface {
	Get(userID string) (Entry, bool)
	Put(userID string, entry Entry)
	Invalidate(userID string)
}

// IsFresh reports whether a cached entry is still inside its TTL.
func IsFresh(createdAt time.Time, ttl time.Duration) bool {
	return time.Since(createdAt) < ttl
}

// MemorySuggestionCache is the in-memory SuggestionCache used in
// single-process deployments.
type MemorySuggestionCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemorySuggestionCache() *MemorySuggestionCache {
	return &MemorySuggestionCache{
		entries: make(map[string]Entry),
	}
}

func (c *MemorySuggestionCache) Get(userID string) (Entry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	// Copy so callers cannot mutate the cached slice.
	suggestions := make([]enrich.Recommendation, len(entry.Suggestions))
	copy(suggestions, entry.Suggestions)
	entry.Suggestions = suggestions
	return entry, true
}

func (c *MemorySuggestionCache) Put(userID string, entry Entry) {
	suggestions := make([]enrich.Recommendation, len(entry.Suggestions))
	copy(suggestions, entry.Suggestions)
	entry.Suggestions = suggestions

	c.mu.Lock()
	c.entries[userID] = entry
	c.mu.Unlock()
}

func (c *MemorySuggestionCache) Invalidate(userID string) {
	c.mu.Lock()
	_, existed := c.entries[userID]
	delete(c.entries, userID)
	c.mu.Unlock()

	if existed {
		log.Debugf("%s Invalidated suggestions for user %s", logcolors.LogCacheSuggestions, userID)
	}
}

// Len returns the number of cached users.
func (c *MemorySuggestionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
