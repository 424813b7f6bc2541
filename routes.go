package main

import (
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func setupRoutes(router *mux.Router) {
	// Auth endpoints
	router.HandleFunc("/auth/register", registerHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", loginHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", logoutHandler).Methods(http.MethodPost)

	// Library endpoints
	router.HandleFunc("/library", listLibraryHandler).Methods(http.MethodGet)
	router.HandleFunc("/library", createItemHandler).Methods(http.MethodPost)
	router.HandleFunc("/library/import/tmdb", importTMDBHandler).Methods(http.MethodPost)
	router.HandleFunc("/library/import/recommendation", importRecommendationHandler).Methods(http.MethodPost)
	router.HandleFunc("/library/{id}", getItemHandler).Methods(http.MethodGet)
	router.HandleFunc("/library/{id}", updateItemHandler).Methods(http.MethodPut)
	router.HandleFunc("/library/{id}", deleteItemHandler).Methods(http.MethodDelete)

	// Suggestion endpoints
	router.HandleFunc("/suggestions", getSuggestionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/suggestions/mood", moodSuggestionsHandler).Methods(http.MethodPost)
	router.HandleFunc("/suggestions/cache", suggestionCacheInfoHandler).Methods(http.MethodGet)
	router.HandleFunc("/suggestions/cache", invalidateSuggestionsHandler).Methods(http.MethodDelete)

	// Metadata generation
	router.HandleFunc("/metadata", generateMetadataHandler).Methods(http.MethodPost)

	// Trending
	router.HandleFunc("/trending", trendingHandler).Methods(http.MethodGet)

	// Profile endpoints
	router.HandleFunc("/profile", getProfileHandler).Methods(http.MethodGet)
	router.HandleFunc("/profile", updateProfileHandler).Methods(http.MethodPut)
	router.HandleFunc("/u/{username}", publicProfileHandler).Methods(http.MethodGet)

	// Poster endpoints
	router.HandleFunc("/posters", uploadPosterHandler).Methods(http.MethodPost)
	router.HandleFunc("/posters/file/{path:.*}", servePosterHandler).Methods(http.MethodGet)

	// Health and stats endpoints
	router.HandleFunc("/health", getHealthStatus)
	router.HandleFunc("/stats", getStats)
	router.HandleFunc("/store", getStoreDump)

	// Circuit breaker endpoints
	router.HandleFunc("/circuit-breaker", getCircuitBreakerStatus)
	router.HandleFunc("/circuit-breaker/reset", resetCircuitBreaker)

	// Help endpoint
	router.HandleFunc("/", helpHandler)
}
