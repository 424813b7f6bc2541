package main

import (
	"net/http"

	"media-tracker-go/stats"
)

func helpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(map[string]interface{}{
		"help": "Personal media tracking API. Authenticate via /auth/register or /auth/login, then manage your library at /library and fetch recommendations at /suggestions. See /health for status.",
	})
}

func trendingHandler(w http.ResponseWriter, r *http.Request) {
	payload, fromCache := trendingSvc.Get(r.Context())

	if fromCache {
		stats.Get().RecordTrendingCacheHit()
	}

	cacheStatus := "miss"
	if fromCache {
		cacheStatus = "hit"
	}

	Respond(w, r).SetCacheStatus(cacheStatus).JSON(map[string]interface{}{
		"error":    nil,
		"trending": payload,
	})
}

func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	numKeys, sizeKB := db.Stats()

	Respond(w, r).JSON(map[string]interface{}{
		"status":  "ok",
		"uptime":  stats.Get().Uptime().String(),
		"ai_mode": generator.Mode(),
		"store": map[string]interface{}{
			"keys":    numKeys,
			"size_kb": sizeKB,
		},
		"circuit_breaker": aiBreaker.State().String(),
	})
}

func getStats(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(stats.Get().Snapshot())
}

// adminAuthorized gates inspection endpoints on the admin access token
func adminAuthorized(r *http.Request) bool {
	token := conf.Configuration.AdminAccessToken
	return token != "" && r.Header.Get("Authorization") == token
}

func getStoreDump(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	numKeys, sizeKB := db.Stats()

	Respond(w, r).JSON(StoreDumpResponse{
		NumberOfKeys: numKeys,
		SizeInKB:     sizeKB,
		SizeInMB:     float64(sizeKB) / 1024,
		CachedUsers:  suggestionCache.Len(),
		CachedURLs:   posterURLCache.Len(),
	})
}

func getCircuitBreakerStatus(w http.ResponseWriter, r *http.Request) {
	state, failures, lastFailure := aiBreaker.Stats()

	payload := map[string]interface{}{
		"state":     state.String(),
		"failures":  failures,
		"threshold": aiBreaker.Threshold(),
	}
	if !lastFailure.IsZero() {
		payload["last_failure"] = lastFailure
	}
	if retry := aiBreaker.TimeUntilRetry(); retry > 0 {
		payload["retry_in"] = retry.String()
	}

	Respond(w, r).JSON(payload)
}

func resetCircuitBreaker(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	aiBreaker.Reset()

	Respond(w, r).JSON(map[string]interface{}{
		"error": nil,
		"state": aiBreaker.State().String(),
	})
}
