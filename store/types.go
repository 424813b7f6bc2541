package store

import "time"

// MediaType is one of the four tracked categories.
type MediaType string

const (
	TypeMovie  MediaType = "movie"
	TypeSeries MediaType = "series"
	TypeMusic  MediaType = "music"
	TypeGame   MediaType = "game"
)

// MediaTypes lists every valid media type.
var MediaTypes = []MediaType{TypeMovie, TypeSeries, TypeMusic, TypeGame}

// ValidMediaType reports whether s is one of the allowed media types.
func ValidMediaType(s string) bool {
	for _, t := range MediaTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// MediaStatus is the user's tracking state for an item.
type MediaStatus string

const (
	StatusOwned     MediaStatus = "owned"
	StatusWishlist  MediaStatus = "wishlist"
	StatusWatching  MediaStatus = "watching"
	StatusCompleted MediaStatus = "completed"
)

// MediaStatuses lists every valid status.
var MediaStatuses = []MediaStatus{StatusOwned, StatusWishlist, StatusWatching, StatusCompleted}

// ValidMediaStatus reports whether s is one of the allowed statuses.
func ValidMediaStatus(s string) bool {
	for _, st := range MediaStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// MediaItem is one entry in a user's library.
type MediaItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	MediaType   MediaType `json:"media_type"`
	Status      MediaStatus `json:"status"`
	Rating      *int      `json:"rating"`
	Description string    `json:"description"`
	Review      string    `json:"review"`
	Creator     string    `json:"creator"`
	Genre       string    `json:"genre"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"image_url"`
	ReleaseDate string    `json:"release_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemInput carries the fields accepted when creating a media item.
type ItemInput struct {
	Title       string   `json:"title"`
	MediaType   string   `json:"media_type"`
	Status      string   `json:"status"`
	Rating      *int     `json:"rating"`
	Description string   `json:"description"`
	Review      string   `json:"review"`
	Creator     string   `json:"creator"`
	Genre       string   `json:"genre"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image_url"`
	ReleaseDate string   `json:"release_date"`
}

// ItemUpdate carries optional updates; nil fields are left unchanged.
type ItemUpdate struct {
	Title       *string   `json:"title"`
	MediaType   *string   `json:"media_type"`
	Status      *string   `json:"status"`
	Rating      *int      `json:"rating"`
	Description *string   `json:"description"`
	Review      *string   `json:"review"`
	Creator     *string   `json:"creator"`
	Genre       *string   `json:"genre"`
	Tags        *[]string `json:"tags"`
	ImageURL    *string   `json:"image_url"`
	ReleaseDate *string   `json:"release_date"`
}

// Filters narrows ListItems results. Zero values mean "no filter".
type Filters struct {
	Q         string
	Status    string
	MediaType string
}

// User is an account record. PasswordHash is never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public-facing identity attached to a user.
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileUpdate carries optional profile changes; nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	IsPublic    *bool   `json:"is_public"`
}

type session struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
