package ai

import "media-tracker-go/utils"

// DemoRecommendations is the fixed set served in demo mode and as the
// fallback when generation fails.
func DemoRecommendations() []Recommendation {
	return []Recommendation{
		{
			Title:     "Hades",
			MediaType: "game",
			Why:       "A fast roguelike with a story that rewards every run, great if you like games with real narrative momentum.",
		},
		{
			Title:     "Severance",
			MediaType: "series",
			Why:       "A slow-burn sci-fi mystery with a striking visual identity and one of the best season endings in recent TV.",
		},
		{
			Title:     "Disco Elysium",
			MediaType: "game",
			Why:       "A detective RPG driven entirely by dialogue and skill checks, dense with ideas and worth savoring.",
		},
	}
}

// fillerFor holds the titles appended by EnsureBalanced when a
// category is missing.
var fillerMusic = Recommendation{
	Title:     "Random Access Memories",
	MediaType: "music",
	Why:       "A warm, meticulous album that works as both background and deep listening.",
}

var fillerGame = Recommendation{
	Title:     "Elden Ring",
	MediaType: "game",
	Why:       "An open world built around discovery, with enough challenge variety to fit most play styles.",
}

var fillerMovie = Recommendation{
	Title:     "The Dark Knight",
	MediaType: "movie",
	Why:       "A crime thriller first and a superhero film second, anchored by an all-time villain performance.",
}

// EnsureBalanced pads a recommendation list so every category is
// represented: at least one music entry, at least one game, and at
// least two movie or series entries combined. The quota wins over
// dedup, so the movie filler can appear twice in a screen-free list.
// Already-balanced input comes back unchanged.
func EnsureBalanced(recs []Recommendation) []Recommendation {
	result := make([]Recommendation, len(recs))
	copy(result, recs)

	counts := make(map[string]int, 4)
	for _, r := range result {
		counts[r.MediaType]++
	}

	if counts["music"] == 0 {
		result = append(result, fillerMusic)
		counts["music"]++
	}
	if counts["game"] == 0 {
		result = append(result, fillerGame)
		counts["game"]++
	}
	for counts["movie"]+counts["series"] < 2 {
		result = append(result, fillerMovie)
		counts["movie"]++
	}

	return result
}

// FilterExcluded drops recommendations whose title matches an excluded
// title after trimming and lowercasing.
func FilterExcluded(recs []Recommendation, excludeTitles []string) []Recommendation {
	if len(excludeTitles) == 0 {
		return recs
	}

	excluded := make(map[string]bool, len(excludeTitles))
	for _, title := range excludeTitles {
		excluded[utils.NormalizeTitle(title)] = true
	}

	result := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if excluded[utils.NormalizeTitle(r.Title)] {
			continue
		}
		result = append(result, r)
	}
	return result
}
