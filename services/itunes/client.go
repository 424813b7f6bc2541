package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"media-tracker-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// Client talks to the iTunes Search API for album metadata.
// No API key required.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Album is a normalized album record.
type Album struct {
	ID          string
	Title       string
	Creator     string
	ReleaseDate string
	Description string
	PosterURL   string
}

type searchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []albumPayload `json:"results"`
}

type albumPayload struct {
	CollectionID     int64  `json:"collectionId"`
	CollectionName   string `json:"collectionName"`
	ArtistName       string `json:"artistName"`
	ReleaseDate      string `json:"releaseDate"`
	PrimaryGenreName string `json:"primaryGenreName"`
	ArtworkURL100    string `json:"artworkUrl100"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) search(ctx context.Context, term string, limit int) ([]albumPayload, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("entity", "album")
	params.Set("limit", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("itunes: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("itunes: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("itunes: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("itunes: failed to decode response: %w", err)
	}
	return result.Results, nil
}

func toAlbum(p albumPayload) Album {
	return Album{
		ID:          strconv.FormatInt(p.CollectionID, 10),
		Title:       p.CollectionName,
		Creator:     p.ArtistName,
		ReleaseDate: p.ReleaseDate,
		Description: p.PrimaryGenreName,
		PosterURL:   p.ArtworkURL100,
	}
}

// SearchAlbum returns the top album hit for a search term, or nil when
// nothing matched.
func (c *Client) SearchAlbum(ctx context.Context, term string) (*Album, error) {
	results, err := c.search(ctx, term, 5)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		log.Debugf("%s No album results for %q", logcolors.LogITunes, term)
		return nil, nil
	}
	album := toAlbum(results[0])
	return &album, nil
}

// TrendingAlbums returns a small set of popular albums.
func (c *Client) TrendingAlbums(ctx context.Context) ([]Album, error) {
	results, err := c.search(ctx, "top", 8)
	if err != nil {
		return nil, err
	}
	albums := make([]Album, 0, len(results))
	for _, p := range results {
		albums = append(albums, toAlbum(p))
	}
	return albums, nil
}
