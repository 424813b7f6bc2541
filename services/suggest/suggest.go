package suggest

import (
	"context"
	"errors"
	"strings"
	"time"

	"media-tracker-go/cache"
	"media-tracker-go/fingerprint"
	"media-tracker-go/logcolors"
	"media-tracker-go/services/ai"
	"media-tracker-go/services/enrich"
	"media-tracker-go/store"

	log "github.com/sirupsen/logrus"
)

// ErrEmptyPrompt is returned when a mood request carries no usable
// text. This is the one suggestion failure surfaced to the client as
// an error.
var ErrEmptyPrompt = errors.New("suggest: mood prompt is empty")

// LibraryStore provides the items a suggestion run is based on.
type LibraryStore interface {
	ListItems(userID string, filters store.Filters) ([]store.MediaItem, error)
}

// Generator produces raw recommendations.
type Generator interface {
	Generate(ctx context.Context, taste []ai.TasteItem, excludeTitles []string) ([]ai.Recommendation, string)
	GenerateForMood(ctx context.Context, prompt string, excludeTitles []string) ([]ai.Recommendation, string)
}

// Enricher attaches catalog metadata to raw recommendations.
type Enricher interface {
	Batch(ctx context.Context, recs []ai.Recommendation) []enrich.Recommendation
}

// Service orchestrates a suggestion run: fingerprint the library,
// consult the cache, generate, enrich, cache the result.
type Service struct {
	store     LibraryStore
	cache     cache.SuggestionCache
	generator Generator
	enricher  Enricher
	ttl       time.Duration
}

func New(library LibraryStore, suggestionCache cache.SuggestionCache, generator Generator, enricher Enricher, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultSuggestionTTL
	}
	return &Service{
		store:     library,
		cache:     suggestionCache,
		generator: generator,
		enricher:  enricher,
		ttl:       ttl,
	}
}

// Result is the outcome of a suggestion run.
type Result struct {
	Suggestions []enrich.Recommendation
	FromCache   bool
	ErrorToken  string
}

func fingerprintItems(items []store.MediaItem) []fingerprint.Item {
	result := make([]fingerprint.Item, 0, len(items))
	for _, item := range items {
		result = append(result, fingerprint.Item{
			ID:          item.ID,
			Title:       item.Title,
			MediaType:   string(item.MediaType),
			Creator:     item.Creator,
			ReleaseDate: item.ReleaseDate,
			Status:      string(item.Status),
		})
	}
	return result
}

func tasteProfile(items []store.MediaItem) []ai.TasteItem {
	taste := make([]ai.TasteItem, 0, len(items))
	for _, item := range items {
		if item.Status != store.StatusCompleted {
			continue
		}
		taste = append(taste, ai.TasteItem{
			Title:     item.Title,
			MediaType: string(item.MediaType),
			Genre:     item.Genre,
			Tags:      item.Tags,
		})
	}
	return taste
}

func excludeTitles(items []store.MediaItem) []string {
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	return titles
}

// ForUser returns suggestions for a user's library. A cached set is
// served verbatim when the library fingerprint matches and the entry
// is fresh; anything else triggers a full regeneration.
func (s *Service) ForUser(ctx context.Context, userID string) (Result, error) {
	items, err := s.store.ListItems(userID, store.Filters{})
	if err != nil {
		return Result{}, err
	}

	fp := fingerprint.Build(fingerprintItems(items))

	if entry, ok := s.cache.Get(userID); ok {
		if entry.Fingerprint == fp && cache.IsFresh(entry.CreatedAt, s.ttl) {
			log.Debugf("%s Cache hit for user %s", logcolors.LogSuggest, userID)
			return Result{Suggestions: entry.Suggestions, FromCache: true}, nil
		}
		log.Debugf("%s Cache stale for user %s (fingerprint match: %v)", logcolors.LogSuggest, userID, entry.Fingerprint == fp)
	}

	raws, errToken := s.generator.Generate(ctx, tasteProfile(items), excludeTitles(items))
	if len(raws) == 0 {
		// Nothing survived generation and balancing; do not cache.
		return Result{Suggestions: []enrich.Recommendation{}, ErrorToken: errToken}, nil
	}

	suggestions := s.enricher.Batch(ctx, raws)

	s.cache.Put(userID, cache.Entry{
		Fingerprint: fp,
		CreatedAt:   time.Now(),
		Suggestions: suggestions,
	})

	return Result{Suggestions: suggestions, ErrorToken: errToken}, nil
}

// ForMood returns suggestions for a free-text mood prompt. Mood runs
// bypass the cache entirely; an empty prompt is a client error.
func (s *Service) ForMood(ctx context.Context, userID, prompt string) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, ErrEmptyPrompt
	}
	prompt = ai.TruncateMoodPrompt(prompt)

	items, err := s.store.ListItems(userID, store.Filters{})
	if err != nil {
		return Result{}, err
	}

	raws, errToken := s.generator.GenerateForMood(ctx, prompt, excludeTitles(items))
	if len(raws) == 0 {
		return Result{Suggestions: []enrich.Recommendation{}, ErrorToken: errToken}, nil
	}

	return Result{Suggestions: s.enricher.Batch(ctx, raws), ErrorToken: errToken}, nil
}
