package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"media-tracker-go/logcolors"
	"media-tracker-go/services/ai"
	"media-tracker-go/services/itunes"
	"media-tracker-go/services/tmdb"

	log "github.com/sirupsen/logrus"
)

// Recommendation is a suggestion after catalog enrichment, ready to
// serve to clients.
type Recommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	MediaType   string `json:"media_type"`
	Description string `json:"description"`
	Creator     string `json:"creator,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterPath  string `json:"poster_path,omitempty"`
	Reason      string `json:"reason"`
}

// MovieCatalog looks up movies and series.
type MovieCatalog interface {
	SearchFirst(ctx context.Context, title string, series bool) (*tmdb.SearchResult, error)
	Credits(ctx context.Context, id int, series bool) (string, error)
}

// MusicCatalog looks up albums.
type MusicCatalog interface {
	SearchAlbum(ctx context.Context, term string) (*itunes.Album, error)
}

// Enricher attaches catalog metadata to raw recommendations. Lookups
// that fail fall back to a synthetic entry built from the raw
// recommendation alone.
type Enricher struct {
	movies MovieCatalog
	music  MusicCatalog
}

func New(movies MovieCatalog, music MusicCatalog) *Enricher {
	return &Enricher{movies: movies, music: music}
}

// syntheticID builds a deterministic ID from the list position, title
// and media type.
func syntheticID(index int, title, mediaType string) string {
	return fmt.Sprintf("rec-%d-%s-%s", index, url.QueryEscape(title), mediaType)
}

func synthetic(rec ai.Recommendation, index int) Recommendation {
	return Recommendation{
		ID:          syntheticID(index, rec.Title, rec.MediaType),
		Title:       rec.Title,
		MediaType:   rec.MediaType,
		Description: rec.Why,
		Reason:      rec.Why,
	}
}

// One enriches a single recommendation. It never fails: catalog errors
// degrade to the synthetic form.
func (e *Enricher) One(ctx context.Context, rec ai.Recommendation, index int) Recommendation {
	switch rec.MediaType {
	case "movie", "series":
		return e.enrichScreen(ctx, rec, index)
	case "music":
		return e.enrichMusic(ctx, rec, index)
	default:
		// Games have no catalog lookup.
		return synthetic(rec, index)
	}
}

func (e *Enricher) enrichScreen(ctx context.Context, rec ai.Recommendation, index int) Recommendation {
	result := synthetic(rec, index)
	if e.movies == nil {
		return result
	}

	series := rec.MediaType == "series"
	hit, err := e.movies.SearchFirst(ctx, rec.Title, series)
	if err != nil {
		log.Debugf("%s Lookup failed for %q: %v", logcolors.LogEnrich, rec.Title, err)
		return result
	}
	if hit == nil {
		return result
	}

	result.ID = strconv.Itoa(hit.ID)
	result.ReleaseDate = hit.DisplayDate()
	result.PosterPath = hit.PosterPath
	if hit.Overview != "" {
		result.Description = hit.Overview
	}

	creator, err := e.movies.Credits(ctx, hit.ID, series)
	if err != nil {
		log.Debugf("%s Credits lookup failed for %q: %v", logcolors.LogEnrich, rec.Title, err)
	} else {
		result.Creator = creator
	}
	return result
}

func (e *Enricher) enrichMusic(ctx context.Context, rec ai.Recommendation, index int) Recommendation {
	result := synthetic(rec, index)
	if e.music == nil {
		return result
	}

	album, err := e.music.SearchAlbum(ctx, rec.Title)
	if err != nil {
		log.Debugf("%s Album lookup failed for %q: %v", logcolors.LogEnrich, rec.Title, err)
		return result
	}
	if album == nil {
		return result
	}

	result.ID = album.ID
	result.Title = album.Title
	result.Creator = album.Creator
	result.ReleaseDate = album.ReleaseDate
	result.PosterPath = album.PosterURL
	if album.Description != "" {
		result.Description = album.Description
	}
	return result
}

// Batch enriches recommendations concurrently, preserving input order.
func (e *Enricher) Batch(ctx context.Context, recs []ai.Recommendation) []Recommendation {
	results := make([]Recommendation, len(recs))

	var wg sync.WaitGroup
	for i, rec := range recs {
		wg.Add(1)
		go func(i int, rec ai.Recommendation) {
			defer wg.Done()
			results[i] = e.One(ctx, rec, i)
		}(i, rec)
	}
	wg.Wait()

	return results
}
