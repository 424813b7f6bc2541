package utils

import (
	"strings"
	"time"
)

var releasePlaceholders = map[string]bool{
	"unreleased": true,
	"tba":        true,
	"tbd":        true,
}

// ParseReleaseDate normalizes a catalog release date to YYYY-MM-DD.
// Placeholder values and unparseable dates return "".
func ParseReleaseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || releasePlaceholders[strings.ToLower(raw)] {
		return ""
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "January 2, 2006", "Jan 2, 2006", "2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
