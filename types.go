package main

type contextKey string

const (
	cacheOnlyModeKey contextKey = "cacheOnlyMode"
	rateLimitTypeKey contextKey = "rateLimitType"
)

// StoreDumpResponse is the response format for the store inspection endpoint
type StoreDumpResponse struct {
	NumberOfKeys int     `json:"number_of_keys"`
	SizeInKB     int     `json:"size_kb"`
	SizeInMB     float64 `json:"size_mb"`
	CachedUsers  int     `json:"cached_suggestion_users"`
	CachedURLs   int     `json:"cached_poster_urls"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type moodRequest struct {
	Prompt string `json:"prompt"`
}

type metadataRequest struct {
	Title     string `json:"title"`
	MediaType string `json:"media_type"`
}

type tmdbImportRequest struct {
	TMDBID    int    `json:"tmdb_id"`
	MediaType string `json:"media_type"`
}

type recommendationImportRequest struct {
	Title       string `json:"title"`
	MediaType   string `json:"media_type"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	Reason      string `json:"reason"`
}
