package ai

import (
	"encoding/json"
	"strings"
)

var validTypes = map[string]bool{
	"movie":  true,
	"series": true,
	"game":   true,
	"music":  true,
}

// stripCodeFences removes a leading ``` or ```json fence and a
// trailing ``` fence so fenced model output parses as plain JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// parseRecommendations decodes a model response into recommendations.
// The expected shape is an object with a "recommendations" array;
// entries missing a title or reason, or carrying an unknown media
// type, are dropped silently. A response that cannot be decoded at
// all returns nil.
func parseRecommendations(raw string) []Recommendation {
	cleaned := stripCodeFences(raw)

	var decoded struct {
		Recommendations []struct {
			Title     string `json:"title"`
			MediaType string `json:"media_type"`
			Why       string `json:"why"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil
	}

	result := make([]Recommendation, 0, len(decoded.Recommendations))
	for _, d := range decoded.Recommendations {
		if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Why) == "" {
			continue
		}
		mediaType := strings.ToLower(strings.TrimSpace(d.MediaType))
		if !validTypes[mediaType] {
			continue
		}
		result = append(result, Recommendation{
			Title:     strings.TrimSpace(d.Title),
			MediaType: mediaType,
			Why:       strings.TrimSpace(d.Why),
		})
	}
	return result
}

// parseMetadata decodes a model response into a metadata record.
// Ratings outside 1-10 are clamped to a sensible default.
func parseMetadata(raw string) (Metadata, bool) {
	cleaned := stripCodeFences(raw)

	var meta Metadata
	if err := json.Unmarshal([]byte(cleaned), &meta); err != nil {
		return Metadata{}, false
	}
	if meta.Rating < 1 || meta.Rating > 10 {
		meta.Rating = 8
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return meta, true
}
