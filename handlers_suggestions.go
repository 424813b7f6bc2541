package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-tracker-go/services/enrich"
	"media-tracker-go/services/suggest"
	"media-tracker-go/stats"
	"media-tracker-go/store"
)

// suggestionPayload serializes a recommendation with its resolved
// poster URL.
func suggestionPayload(s enrich.Recommendation) map[string]interface{} {
	return map[string]interface{}{
		"id":           s.ID,
		"title":        s.Title,
		"media_type":   s.MediaType,
		"description":  s.Description,
		"creator":      s.Creator,
		"release_date": s.ReleaseDate,
		"poster_url":   posterResolver.Resolve(s.PosterPath, s.MediaType),
		"reason":       s.Reason,
	}
}

func suggestionPayloads(suggestions []enrich.Recommendation) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(suggestions))
	for _, s := range suggestions {
		result = append(result, suggestionPayload(s))
	}
	return result
}

func errorField(token string) interface{} {
	if token == "" {
		return nil
	}
	return token
}

func getSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Cached-only tier serves whatever is cached, fresh or not, and
	// never triggers generation.
	if cacheOnlyMode(r) {
		if entry, ok := suggestionCache.Get(userID); ok {
			stats.Get().RecordSuggestionCacheHit()
			Respond(w, r).SetCacheStatus("hit-cached-tier").JSON(map[string]interface{}{
				"error":       nil,
				"suggestions": suggestionPayloads(entry.Suggestions),
				"cached":      true,
			})
			return
		}
		Respond(w, r).Error(http.StatusTooManyRequests, "Rate limited to cached responses, none available")
		return
	}

	result, err := suggestions.ForUser(r.Context(), userID)
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to generate suggestions")
		return
	}

	if result.FromCache {
		stats.Get().RecordSuggestionCacheHit()
	} else {
		stats.Get().RecordSuggestionCacheMiss()
	}
	if result.ErrorToken != "" {
		stats.Get().RecordAIFallback()
	}

	cacheStatus := "miss"
	if result.FromCache {
		cacheStatus = "hit"
	}

	Respond(w, r).SetCacheStatus(cacheStatus).JSON(map[string]interface{}{
		"error":       errorField(result.ErrorToken),
		"suggestions": suggestionPayloads(result.Suggestions),
		"cached":      result.FromCache,
	})
}

func moodSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := suggestions.ForMood(r.Context(), userID, req.Prompt)
	if err != nil {
		if errors.Is(err, suggest.ErrEmptyPrompt) {
			Respond(w, r).Error(http.StatusUnprocessableEntity, "Mood prompt is required")
			return
		}
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to generate suggestions")
		return
	}

	if result.ErrorToken != "" {
		stats.Get().RecordAIFallback()
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error":       errorField(result.ErrorToken),
		"suggestions": suggestionPayloads(result.Suggestions),
	})
}

func suggestionCacheInfoHandler(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error":        nil,
		"cached_users": suggestionCache.Len(),
	})
}

func invalidateSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	suggestionCache.Invalidate(userID)

	Respond(w, r).JSON(map[string]interface{}{
		"error": nil,
	})
}

func generateMetadataHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var req metadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Title == "" || !store.ValidMediaType(req.MediaType) {
		Respond(w, r).Error(http.StatusUnprocessableEntity, "title and media_type are required")
		return
	}

	meta, errToken := generator.GenerateMetadata(r.Context(), req.Title, req.MediaType)
	if errToken != "" {
		stats.Get().RecordAIFallback()
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error":    errorField(errToken),
		"metadata": meta,
	})
}
