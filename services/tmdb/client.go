package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"media-tracker-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// Client talks to The Movie Database API for movie and series metadata.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
}

// SearchResult is a single entry from a TMDB search or trending response.
// Movies use Title/ReleaseDate, TV uses Name/FirstAirDate.
type SearchResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// Details is the full record for a movie or TV show.
type Details struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// DisplayTitle returns the movie title or TV name, whichever is set.
func (r SearchResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// DisplayDate returns the release date or first air date, whichever is set.
func (r SearchResult) DisplayDate() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// DisplayTitle returns the movie title or TV name, whichever is set.
func (d Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// DisplayDate returns the release date or first air date, whichever is set.
func (d Details) DisplayDate() string {
	if d.ReleaseDate != "" {
		return d.ReleaseDate
	}
	return d.FirstAirDate
}

func NewClient(apiKey, baseURL, imageBaseURL string) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		imageBaseURL: strings.TrimSuffix(imageBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether an API key is present. Lookups fail fast
// without one so callers can degrade instead of burning requests.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("tmdb: no API key configured")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("tmdb: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb: failed to decode response: %w", err)
	}
	return nil
}

// SearchFirst returns the top search hit for a title, or nil when
// nothing matched.
func (c *Client) SearchFirst(ctx context.Context, title string, series bool) (*SearchResult, error) {
	endpoint := "/search/movie"
	if series {
		endpoint = "/search/tv"
	}

	params := url.Values{}
	params.Set("query", title)

	var result struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, endpoint, params, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		log.Debugf("%s No results for %q (series=%v)", logcolors.LogTMDB, title, series)
		return nil, nil
	}
	return &result.Results[0], nil
}

// Credits returns the most relevant creator for a title: the director
// for movies, the listed creator for TV, falling back to the first
// cast member.
func (c *Client) Credits(ctx context.Context, id int, series bool) (string, error) {
	endpoint := fmt.Sprintf("/movie/%d/credits", id)
	if series {
		endpoint = fmt.Sprintf("/tv/%d/credits", id)
	}

	var result struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	}
	if err := c.get(ctx, endpoint, nil, &result); err != nil {
		return "", err
	}

	for _, member := range result.Crew {
		if member.Job == "Director" {
			return member.Name, nil
		}
	}
	for _, member := range result.Crew {
		if member.Job == "Creator" {
			return member.Name, nil
		}
	}
	if len(result.Cast) > 0 {
		return result.Cast[0].Name, nil
	}
	return "", nil
}

// GetDetails fetches the full record for a movie or TV show by ID.
func (c *Client) GetDetails(ctx context.Context, id int, series bool) (*Details, error) {
	endpoint := fmt.Sprintf("/movie/%d", id)
	if series {
		endpoint = fmt.Sprintf("/tv/%d", id)
	}

	var details Details
	if err := c.get(ctx, endpoint, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// TrendingMovies returns this week's trending movies.
func (c *Client) TrendingMovies(ctx context.Context) ([]SearchResult, error) {
	var result struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/trending/movie/week", nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// TrendingTV returns this week's trending TV shows.
func (c *Client) TrendingTV(ctx context.Context) ([]SearchResult, error) {
	var result struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/trending/tv/week", nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// PosterURL composes a full image URL from a TMDB poster path.
// Returns "" for an empty path.
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBaseURL + path
}
