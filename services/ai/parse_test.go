package ai

import "testing"

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fences", `{"title":"Hades"}`, `{"title":"Hades"}`},
		{"plain fences", "```\n[1,2]\n```", "[1,2]"},
		{"json fences", "```json\n[1,2]\n```", "[1,2]"},
		{"surrounding whitespace", "  ```json\n[1]\n```  ", "[1]"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.input); got != tt.expected {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseRecommendations_Valid(t *testing.T) {
	raw := "```json\n" + `{"recommendations": [
		{"title":"Hades","media_type":"game","why":"Great run structure."},
		{"title":"Severance","media_type":"series","why":"Gripping mystery."}
	]}` + "\n```"

	recs := parseRecommendations(raw)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Title != "Hades" || recs[0].MediaType != "game" {
		t.Errorf("Unexpected first recommendation: %+v", recs[0])
	}
}

func TestParseRecommendations_ExtraKeysIgnored(t *testing.T) {
	raw := `{"model_note":"ignore me","recommendations":[{"title":"Hades","media_type":"game","why":"Great.","confidence":0.9}]}`

	recs := parseRecommendations(raw)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
}

func TestParseRecommendations_DropsInvalidEntries(t *testing.T) {
	raw := `{"recommendations": [
		{"title":"","media_type":"game","why":"Missing title."},
		{"title":"No Reason","media_type":"movie","why":""},
		{"title":"Bad Type","media_type":"podcast","why":"Unknown type."},
		{"title":"  Keeper  ","media_type":"MOVIE","why":" Valid. "}
	]}`

	recs := parseRecommendations(raw)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 valid recommendation, got %d", len(recs))
	}
	if recs[0].Title != "Keeper" {
		t.Errorf("Expected trimmed title, got %q", recs[0].Title)
	}
	if recs[0].MediaType != "movie" {
		t.Errorf("Expected normalized media type, got %q", recs[0].MediaType)
	}
}

func TestParseRecommendations_BareArrayRejected(t *testing.T) {
	raw := `[{"title":"Hades","media_type":"game","why":"No envelope."}]`

	if recs := parseRecommendations(raw); len(recs) != 0 {
		t.Errorf("Expected no recommendations without the envelope, got %v", recs)
	}
}

func TestParseRecommendations_Garbage(t *testing.T) {
	inputs := []string{
		"not json at all",
		`{"recommendations":"not an array"}`,
		`{"no_recommendations_key":true}`,
		"",
		"```json\nnope\n```",
	}

	for _, input := range inputs {
		if recs := parseRecommendations(input); len(recs) != 0 {
			t.Errorf("Expected no recommendations for %q, got %v", input, recs)
		}
	}
}

func TestParseMetadata(t *testing.T) {
	raw := "```json\n" + `{"genre":"Roguelike","description":"Escape the underworld.","creator":"Supergiant Games","review":"Excellent.","rating":9,"tags":["action","mythology"]}` + "\n```"

	meta, ok := parseMetadata(raw)
	if !ok {
		t.Fatal("Expected metadata to parse")
	}
	if meta.Genre != "Roguelike" || meta.Rating != 9 {
		t.Errorf("Unexpected metadata: %+v", meta)
	}
}

func TestParseMetadata_RatingOutOfRange(t *testing.T) {
	for _, raw := range []string{
		`{"genre":"g","description":"d","rating":0}`,
		`{"genre":"g","description":"d","rating":11}`,
		`{"genre":"g","description":"d","rating":-3}`,
	} {
		meta, ok := parseMetadata(raw)
		if !ok {
			t.Fatalf("Expected metadata to parse for %q", raw)
		}
		if meta.Rating != 8 {
			t.Errorf("Expected out-of-range rating to default to 8, got %d", meta.Rating)
		}
	}
}

func TestParseMetadata_Garbage(t *testing.T) {
	if _, ok := parseMetadata("not json"); ok {
		t.Error("Expected parse failure for garbage input")
	}
}

func TestParseMetadata_NilTags(t *testing.T) {
	meta, ok := parseMetadata(`{"genre":"g","description":"d","rating":7}`)
	if !ok {
		t.Fatal("Expected metadata to parse")
	}
	if meta.Tags == nil {
		t.Error("Expected tags to default to an empty slice")
	}
}
