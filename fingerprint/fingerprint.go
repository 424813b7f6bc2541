package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Item is the projection of a library entry that participates in the fingerprint.
// Optional fields are hashed as empty strings.
type Item struct {
	ID          string
	Title       string
	MediaType   string
	Creator     string
	ReleaseDate string
	Status      string
}

const (
	fieldSep = "|"
	itemSep  = ";;"
)

// Build returns a stable hex digest of a library snapshot. Items are sorted by
// id ascending before joining, so the same multiset of items always produces
// the same fingerprint regardless of input order, and any change to a tracked
// field changes the result.
func Build(items []Item) string {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	parts := make([]string, 0, len(sorted))
	for _, item := range sorted {
		parts = append(parts, strings.Join([]string{
			item.ID,
			item.Title,
			item.MediaType,
			item.Creator,
			item.ReleaseDate,
			item.Status,
		}, fieldSep))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, itemSep)))
	return hex.EncodeToString(sum[:])
}
