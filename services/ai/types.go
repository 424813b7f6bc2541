package ai

// Recommendation is a raw suggestion before catalog enrichment.
type Recommendation struct {
	Title     string `json:"title"`
	MediaType string `json:"media_type"`
	Why       string `json:"why"`
}

// TasteItem is a compact view of a library item used to build prompts.
type TasteItem struct {
	Title     string
	MediaType string
	Genre     string
	Tags      []string
}

// Metadata is a generated description of a single title.
type Metadata struct {
	Genre       string   `json:"genre"`
	Description string   `json:"description"`
	Creator     string   `json:"creator"`
	Review      string   `json:"review"`
	Rating      int      `json:"rating"`
	Tags        []string `json:"tags"`
}

// Error tokens returned alongside degraded results. Handlers map these
// to response fields rather than HTTP failures.
const (
	ErrTokenInvalidResponse = "Invalid AI response"
	ErrTokenRequestFailed   = "AI request failed"
)

// Generation modes.
const (
	ModeDemo = "demo"
	ModeLive = "live"
)

// MaxMoodPromptLength caps free-text mood prompts, in characters,
// before they reach the model.
const MaxMoodPromptLength = 200

// TruncateMoodPrompt caps a mood prompt at MaxMoodPromptLength
// characters without splitting a multi-byte rune.
func TruncateMoodPrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= MaxMoodPromptLength {
		return prompt
	}
	return string(runes[:MaxMoodPromptLength])
}
