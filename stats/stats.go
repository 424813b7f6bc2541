package stats

import (
	"strings"
	"sync/atomic"
	"time"
)

// Stats holds all server statistics with atomic counters
type Stats struct {
	// Server info
	StartTime time.Time

	// Request counters
	TotalRequests      atomic.Int64
	SuggestionRequests atomic.Int64
	LibraryRequests    atomic.Int64
	TrendingRequests   atomic.Int64
	AuthRequests       atomic.Int64
	ProfileRequests    atomic.Int64
	PosterRequests     atomic.Int64
	StatsRequests      atomic.Int64
	HealthRequests     atomic.Int64
	OtherRequests      atomic.Int64

	// Suggestion cache performance
	SuggestionCacheHits   atomic.Int64
	SuggestionCacheMisses atomic.Int64
	TrendingCacheHits     atomic.Int64

	// Degradation tracking
	AIFallbacks         atomic.Int64 // Generation served the demo set
	EnrichmentFallbacks atomic.Int64 // Catalog lookup served a synthetic entry

	// Rate limiting
	RateLimitNormal   atomic.Int64 // Requests served under normal rate limit
	RateLimitCached   atomic.Int64 // Requests served under cached-only tier
	RateLimitExceeded atomic.Int64 // Requests rejected (429)

	// Response status codes
	Status2xx atomic.Int64
	Status4xx atomic.Int64
	Status5xx atomic.Int64

	// Response time tracking (in microseconds for precision)
	totalResponseTime atomic.Int64
	responseCount     atomic.Int64
	minResponseTime   atomic.Int64
	maxResponseTime   atomic.Int64

	// Suggestion endpoint response times (microseconds)
	suggestionResponseTime  atomic.Int64
	suggestionResponseCount atomic.Int64
}

// Global stats instance
var global = &Stats{
	StartTime: time.Now(),
}

func init() {
	// Initialize min to a high value
	global.minResponseTime.Store(int64(^uint64(0) >> 1)) // Max int64
}

// Get returns the global stats instance
func Get() *Stats {
	return global
}

// RecordRequest records a request to a specific endpoint
func (s *Stats) RecordRequest(path string) {
	s.TotalRequests.Add(1)
	switch {
	case strings.HasPrefix(path, "/suggestions"):
		s.SuggestionRequests.Add(1)
	case strings.HasPrefix(path, "/library"):
		s.LibraryRequests.Add(1)
	case strings.HasPrefix(path, "/trending"):
		s.TrendingRequests.Add(1)
	case strings.HasPrefix(path, "/auth"):
		s.AuthRequests.Add(1)
	case strings.HasPrefix(path, "/profile") || strings.HasPrefix(path, "/u/"):
		s.ProfileRequests.Add(1)
	case strings.HasPrefix(path, "/posters"):
		s.PosterRequests.Add(1)
	case path == "/stats":
		s.StatsRequests.Add(1)
	case path == "/health":
		s.HealthRequests.Add(1)
	default:
		s.OtherRequests.Add(1)
	}
}

// RecordSuggestionCacheHit records a suggestion cache hit
func (s *Stats) RecordSuggestionCacheHit() {
	s.SuggestionCacheHits.Add(1)
}

// RecordSuggestionCacheMiss records a suggestion cache miss
func (s *Stats) RecordSuggestionCacheMiss() {
	s.SuggestionCacheMisses.Add(1)
}

// RecordTrendingCacheHit records a trending cache hit
func (s *Stats) RecordTrendingCacheHit() {
	s.TrendingCacheHits.Add(1)
}

// RecordAIFallback records generation degrading to the demo set
func (s *Stats) RecordAIFallback() {
	s.AIFallbacks.Add(1)
}

// RecordEnrichmentFallback records a catalog lookup degrading to a synthetic entry
func (s *Stats) RecordEnrichmentFallback() {
	s.EnrichmentFallbacks.Add(1)
}

// RecordRateLimit records rate limit tier usage
func (s *Stats) RecordRateLimit(tier string) {
	switch tier {
	case "normal":
		s.RateLimitNormal.Add(1)
	case "cached":
		s.RateLimitCached.Add(1)
	case "exceeded":
		s.RateLimitExceeded.Add(1)
	}
}

// RecordStatusCode records a response status code
func (s *Stats) RecordStatusCode(code int) {
	switch {
	case code >= 200 && code < 300:
		s.Status2xx.Add(1)
	case code >= 400 && code < 500:
		s.Status4xx.Add(1)
	case code >= 500:
		s.Status5xx.Add(1)
	}
}

// RecordResponseTime records a response time
func (s *Stats) RecordResponseTime(duration time.Duration, path string) {
	us := duration.Microseconds()

	s.totalResponseTime.Add(us)
	s.responseCount.Add(1)

	// Update min/max atomically
	for {
		current := s.minResponseTime.Load()
		if us >= current || s.minResponseTime.CompareAndSwap(current, us) {
			break
		}
	}
	for {
		current := s.maxResponseTime.Load()
		if us <= current || s.maxResponseTime.CompareAndSwap(current, us) {
			break
		}
	}

	// Track suggestion-specific response times
	if strings.HasPrefix(path, "/suggestions") {
		s.suggestionResponseTime.Add(us)
		s.suggestionResponseCount.Add(1)
	}
}

// Uptime returns the server uptime
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// SuggestionCacheHitRate returns the suggestion cache hit rate as a percentage
func (s *Stats) SuggestionCacheHitRate() float64 {
	hits := s.SuggestionCacheHits.Load()
	misses := s.SuggestionCacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// AvgResponseTime returns the average response time
func (s *Stats) AvgResponseTime() time.Duration {
	count := s.responseCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(s.totalResponseTime.Load()/count) * time.Microsecond
}

// MinResponseTime returns the minimum response time
func (s *Stats) MinResponseTime() time.Duration {
	min := s.minResponseTime.Load()
	if min == int64(^uint64(0)>>1) {
		return 0
	}
	return time.Duration(min) * time.Microsecond
}

// MaxResponseTime returns the maximum response time
func (s *Stats) MaxResponseTime() time.Duration {
	return time.Duration(s.maxResponseTime.Load()) * time.Microsecond
}

// AvgSuggestionResponseTime returns the average response time for suggestion requests
func (s *Stats) AvgSuggestionResponseTime() time.Duration {
	count := s.suggestionResponseCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(s.suggestionResponseTime.Load()/count) * time.Microsecond
}

// Snapshot returns a point-in-time snapshot of all stats
func (s *Stats) Snapshot() map[string]interface{} {
	uptime := s.Uptime()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"start_time":     s.StartTime.Format(time.RFC3339),
			"uptime":         uptime.String(),
			"uptime_seconds": int64(uptime.Seconds()),
		},
		"requests": map[string]interface{}{
			"total":       s.TotalRequests.Load(),
			"suggestions": s.SuggestionRequests.Load(),
			"library":     s.LibraryRequests.Load(),
			"trending":    s.TrendingRequests.Load(),
			"auth":        s.AuthRequests.Load(),
			"profile":     s.ProfileRequests.Load(),
			"posters":     s.PosterRequests.Load(),
			"stats":       s.StatsRequests.Load(),
			"health":      s.HealthRequests.Load(),
			"other":       s.OtherRequests.Load(),
		},
		"suggestion_cache": map[string]interface{}{
			"hits":     s.SuggestionCacheHits.Load(),
			"misses":   s.SuggestionCacheMisses.Load(),
			"hit_rate": s.SuggestionCacheHitRate(),
		},
		"trending_cache": map[string]interface{}{
			"hits": s.TrendingCacheHits.Load(),
		},
		"degradation": map[string]interface{}{
			"ai_fallbacks":         s.AIFallbacks.Load(),
			"enrichment_fallbacks": s.EnrichmentFallbacks.Load(),
		},
		"rate_limiting": map[string]interface{}{
			"normal_tier": s.RateLimitNormal.Load(),
			"cached_tier": s.RateLimitCached.Load(),
			"exceeded":    s.RateLimitExceeded.Load(),
		},
		"responses": map[string]interface{}{
			"2xx": s.Status2xx.Load(),
			"4xx": s.Status4xx.Load(),
			"5xx": s.Status5xx.Load(),
		},
		"response_times": map[string]interface{}{
			"avg":             s.AvgResponseTime().String(),
			"min":             s.MinResponseTime().String(),
			"max":             s.MaxResponseTime().String(),
			"avg_suggestions": s.AvgSuggestionResponseTime().String(),
		},
	}
}
