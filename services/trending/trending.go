package trending

import (
	"context"
	"strconv"
	"sync"
	"time"

	"media-tracker-go/logcolors"
	"media-tracker-go/services/games"
	"media-tracker-go/services/itunes"
	"media-tracker-go/services/tmdb"

	log "github.com/sirupsen/logrus"
)

// Item is one trending entry, normalized across catalogs.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	MediaType   string `json:"media_type"`
	Creator     string `json:"creator,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	Description string `json:"description,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
}

// Payload groups trending items by media type.
type Payload struct {
	Movies []Item `json:"movies"`
	Series []Item `json:"series"`
	Games  []Item `json:"games"`
	Music  []Item `json:"music"`
}

// MovieSource provides trending movies and TV.
type MovieSource interface {
	TrendingMovies(ctx context.Context) ([]tmdb.SearchResult, error)
	TrendingTV(ctx context.Context) ([]tmdb.SearchResult, error)
	PosterURL(path string) string
}

// MusicSource provides popular albums.
type MusicSource interface {
	TrendingAlbums(ctx context.Context) ([]itunes.Album, error)
}

// GameSource provides game listings.
type GameSource interface {
	Trending(ctx context.Context) ([]games.Game, error)
}

// Service aggregates trending sections from the catalogs. Results are
// reused for a TTL; catalog failures degrade to an empty section.
type Service struct {
	movies MovieSource
	music  MusicSource
	games  GameSource
	ttl    time.Duration

	mu        sync.Mutex
	cached    *Payload
	fetchedAt time.Time
}

func New(movies MovieSource, music MusicSource, gameSource GameSource, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		movies: movies,
		music:  music,
		games:  gameSource,
		ttl:    ttl,
	}
}

// Get returns the trending payload, serving a cached copy when fresh.
// The second return value reports whether the cache was used.
func (s *Service) Get(ctx context.Context) (Payload, bool) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		payload := *s.cached
		s.mu.Unlock()
		log.Debugf("%s Serving cached trending payload", logcolors.LogCacheTrending)
		return payload, true
	}
	s.mu.Unlock()

	payload := s.fetch(ctx)

	s.mu.Lock()
	s.cached = &payload
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return payload, false
}

func (s *Service) fetch(ctx context.Context) Payload {
	var payload Payload
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results, err := s.movies.TrendingMovies(ctx)
		if err != nil {
			log.Warnf("%s Trending movies failed: %v", logcolors.LogTMDB, err)
			payload.Movies = []Item{}
			return
		}
		payload.Movies = s.screenItems(results, "movie")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		results, err := s.movies.TrendingTV(ctx)
		if err != nil {
			log.Warnf("%s Trending TV failed: %v", logcolors.LogTMDB, err)
			payload.Series = []Item{}
			return
		}
		payload.Series = s.screenItems(results, "series")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		list, err := s.games.Trending(ctx)
		if err != nil {
			log.Warnf("%s Trending games failed: %v", logcolors.LogGames, err)
			payload.Games = []Item{}
			return
		}
		items := make([]Item, 0, len(list))
		for _, g := range list {
			items = append(items, Item{
				ID:          g.ID,
				Title:       g.Title,
				MediaType:   "game",
				Creator:     g.Developer,
				ReleaseDate: g.ReleaseDate,
				Description: g.Description,
			})
		}
		payload.Games = items
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		albums, err := s.music.TrendingAlbums(ctx)
		if err != nil {
			log.Warnf("%s Trending albums failed: %v", logcolors.LogITunes, err)
			payload.Music = []Item{}
			return
		}
		items := make([]Item, 0, len(albums))
		for _, a := range albums {
			items = append(items, Item{
				ID:          a.ID,
				Title:       a.Title,
				MediaType:   "music",
				Creator:     a.Creator,
				ReleaseDate: a.ReleaseDate,
				Description: a.Description,
				PosterURL:   a.PosterURL,
			})
		}
		payload.Music = items
	}()

	wg.Wait()
	return payload
}

func (s *Service) screenItems(results []tmdb.SearchResult, mediaType string) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		items = append(items, Item{
			ID:          strconv.Itoa(r.ID),
			Title:       r.DisplayTitle(),
			MediaType:   mediaType,
			ReleaseDate: r.DisplayDate(),
			Description: r.Overview,
			PosterURL:   s.movies.PosterURL(r.PosterPath),
		})
	}
	return items
}
