package games

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const trendingLimit = 12

// Client fetches game listings from the SampleAPIs Switch catalog.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// Game is a normalized game record.
type Game struct {
	ID          string
	Title       string
	Genre       string
	Developer   string
	ReleaseDate string
	Description string
}

type gamePayload struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Genre        []string          `json:"genre"`
	Developers   []string          `json:"developers"`
	Publishers   []string          `json:"publishers"`
	ReleaseDates map[string]string `json:"releaseDates"`
}

func NewClient(apiURL string) *Client {
	return &Client{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Trending returns the first few games from the catalog.
func (c *Client) Trending(ctx context.Context) ([]Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("games: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("games: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("games: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var payloads []gamePayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("games: failed to decode response: %w", err)
	}

	if len(payloads) > trendingLimit {
		payloads = payloads[:trendingLimit]
	}

	result := make([]Game, 0, len(payloads))
	for _, p := range payloads {
		game := Game{
			ID:    strconv.Itoa(p.ID),
			Title: p.Name,
		}
		if len(p.Genre) > 0 {
			game.Genre = p.Genre[0]
			game.Description = p.Genre[0]
		}
		if len(p.Developers) > 0 {
			game.Developer = p.Developers[0]
		} else if len(p.Publishers) > 0 {
			game.Developer = p.Publishers[0]
		}
		if date, ok := p.ReleaseDates["NorthAmerica"]; ok {
			game.ReleaseDate = date
		}
		result = append(result, game)
	}
	return result, nil
}
