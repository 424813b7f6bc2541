package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"media-tracker-go/circuitbreaker"
	"media-tracker-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// Generator produces recommendations and metadata, either from a fixed
// demo set or from an OpenAI-compatible chat completions endpoint.
// Live failures degrade to the demo set, never to an empty response.
type Generator struct {
	mode        string
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	breaker     *circuitbreaker.CircuitBreaker
}

type Config struct {
	Mode        string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Breaker     *circuitbreaker.CircuitBreaker
}

func NewGenerator(cfg Config) *Generator {
	mode := cfg.Mode
	if mode != ModeLive || cfg.APIKey == "" {
		mode = ModeDemo
	}
	return &Generator{
		mode:        mode,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		breaker: cfg.Breaker,
	}
}

// Mode returns the effective generation mode.
func (g *Generator) Mode() string {
	return g.mode
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete sends a chat completion request and returns the raw
// assistant content. All transport and decode failures count against
// the circuit breaker.
func (g *Generator) complete(ctx context.Context, system, user string) (string, error) {
	if g.breaker != nil && !g.breaker.Allow() {
		return "", fmt.Errorf("ai: circuit breaker open, retry in %v", g.breaker.TimeUntilRetry().Round(time.Second))
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("ai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.recordFailure()
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.recordFailure()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ai: unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		g.recordFailure()
		return "", fmt.Errorf("ai: failed to decode response: %w", err)
	}
	if decoded.Error != nil {
		g.recordFailure()
		return "", fmt.Errorf("ai: upstream error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		g.recordFailure()
		return "", fmt.Errorf("ai: empty choices in response")
	}

	g.recordSuccess()
	return decoded.Choices[0].Message.Content, nil
}

func (g *Generator) recordFailure() {
	if g.breaker != nil {
		g.breaker.RecordFailure()
	}
}

func (g *Generator) recordSuccess() {
	if g.breaker != nil {
		g.breaker.RecordSuccess()
	}
}

const recommendSystemPrompt = `You are a media recommendation engine. Based on the user's library you suggest movies, series, games and music they would enjoy. Respond ONLY with a JSON object of the form {"recommendations": [...]}. Each array element must have exactly these keys: "title" (string), "media_type" (one of "movie", "series", "game", "music") and "why" (one sentence, string). Suggest a mix of media types. Do not suggest anything on the exclusion list.`

func buildTastePrompt(taste []TasteItem, excludeTitles []string) string {
	var b strings.Builder
	if len(taste) == 0 {
		b.WriteString("The user has no completed items yet. Suggest broadly appealing, critically acclaimed picks across all media types.\n")
	} else {
		b.WriteString("The user's completed library:\n")
		for _, item := range taste {
			b.WriteString("- ")
			b.WriteString(item.Title)
			b.WriteString(" (")
			b.WriteString(item.MediaType)
			if item.Genre != "" {
				b.WriteString(", ")
				b.WriteString(item.Genre)
			}
			b.WriteString(")")
			if len(item.Tags) > 0 {
				b.WriteString(" [")
				b.WriteString(strings.Join(item.Tags, ", "))
				b.WriteString("]")
			}
			b.WriteString("\n")
		}
	}
	if len(excludeTitles) > 0 {
		b.WriteString("\nDo NOT suggest any of these titles (already in the library):\n")
		for _, title := range excludeTitles {
			b.WriteString("- ")
			b.WriteString(title)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nSuggest 6 items.")
	return b.String()
}

// Generate returns recommendations for a taste profile. The second
// return value is an error token for the response payload; it is set
// when live generation degraded to the demo set.
func (g *Generator) Generate(ctx context.Context, taste []TasteItem, excludeTitles []string) ([]Recommendation, string) {
	if g.mode == ModeDemo {
		return EnsureBalanced(FilterExcluded(DemoRecommendations(), excludeTitles)), ""
	}

	raw, err := g.complete(ctx, recommendSystemPrompt, buildTastePrompt(taste, excludeTitles))
	if err != nil {
		log.Warnf("%s Generation failed, serving demo set: %v", logcolors.LogAI, err)
		return EnsureBalanced(FilterExcluded(DemoRecommendations(), excludeTitles)), ErrTokenRequestFailed
	}

	recs := parseRecommendations(raw)
	if len(recs) == 0 {
		log.Warnf("%s Unparseable response, serving demo set", logcolors.LogAI)
		return EnsureBalanced(FilterExcluded(DemoRecommendations(), excludeTitles)), ErrTokenInvalidResponse
	}

	return EnsureBalanced(FilterExcluded(recs, excludeTitles)), ""
}

const moodSystemPrompt = `You are a media recommendation engine. The user describes a mood or craving; suggest movies, series, games and music matching it. Respond ONLY with a JSON object of the form {"recommendations": [...]}. Each array element must have exactly these keys: "title" (string), "media_type" (one of "movie", "series", "game", "music") and "why" (one sentence tying the pick to the mood, string). Do not suggest anything on the exclusion list.`

// GenerateForMood returns recommendations for a free-text mood prompt.
// The prompt is truncated to MaxMoodPromptLength before use.
func (g *Generator) GenerateForMood(ctx context.Context, prompt string, excludeTitles []string) ([]Recommendation, string) {
	prompt = TruncateMoodPrompt(prompt)

	if g.mode == ModeDemo {
		return EnsureBalanced(FilterExcluded(DemoRecommendations(), excludeTitles)), ""
	}

	var b strings.Builder
	b.WriteString("Mood: ")
	b.WriteString(prompt)
	b.WriteString("\n")
	if len(excludeTitles) > 0 {
		b.WriteString("\nDo NOT suggest any of these titles (already in the library):\n")
		for _, title := range excludeTitles {
			b.WriteString("- ")
			b.WriteString(title)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nSuggest 6 items.")

	raw, err := g.complete(ctx, moodSystemPrompt, b.String())
	if err != nil {
		log.Warnf("%s Mood generation failed, serving demo set: %v", logcolors.LogAI, err)
		return EnsureBalanced(FilterExcluded(DemoRecommendations(), excludeTitles)), ErrTokenRequestFailed
	}

	recs := parseRecommendations(raw)
	if len(recs) == 0 {
		log.Warnf("%s Unparseable mood response, serving demo set", logcolors.LogAI)
		return EnsureBalanced(FilterExcluded(DemoRecommendations(), excludeTitles)), ErrTokenInvalidResponse
	}

	return EnsureBalanced(FilterExcluded(recs, excludeTitles)), ""
}

const metadataSystemPrompt = `You describe media titles for a personal tracking app. Respond ONLY with a JSON object with exactly these keys: "genre" (string), "description" (2-3 sentences, string), "creator" (director, showrunner, developer or artist, string), "review" (one-sentence critical consensus, string), "rating" (integer 1-10) and "tags" (array of 3-5 short strings).`

// demoMetadata is the fixed record served in demo mode and as the
// fallback when metadata generation fails.
func demoMetadata(title, mediaType string) Metadata {
	return Metadata{
		Genre:       "Unknown",
		Description: fmt.Sprintf("%s is a well-regarded %s. Add your own notes to personalize this entry.", title, mediaType),
		Creator:     "",
		Review:      "Generally well received.",
		Rating:      8,
		Tags:        []string{mediaType},
	}
}

// GenerateMetadata returns a generated description for a single title.
// The second return value is an error token set when generation
// degraded to the fallback record.
func (g *Generator) GenerateMetadata(ctx context.Context, title, mediaType string) (Metadata, string) {
	if g.mode == ModeDemo {
		return demoMetadata(title, mediaType), ""
	}

	user := fmt.Sprintf("Describe %q (%s).", title, mediaType)
	raw, err := g.complete(ctx, metadataSystemPrompt, user)
	if err != nil {
		log.Warnf("%s Metadata generation failed for %q: %v", logcolors.LogAI, title, err)
		return demoMetadata(title, mediaType), ErrTokenRequestFailed
	}

	meta, ok := parseMetadata(raw)
	if !ok {
		log.Warnf("%s Unparseable metadata response for %q", logcolors.LogAI, title)
		return demoMetadata(title, mediaType), ErrTokenInvalidResponse
	}
	return meta, ""
}
