package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"media-tracker-go/utils"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// CreateItem inserts a new media item into the user's library.
func (s *Store) CreateItem(userID string, in ItemInput) (*MediaItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !ValidMediaType(in.MediaType) {
		return nil, fmt.Errorf("invalid media_type: %q", in.MediaType)
	}
	if !ValidMediaStatus(in.Status) {
		return nil, fmt.Errorf("invalid status: %q", in.Status)
	}

	now := time.Now().UTC()
	item := &MediaItem{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		MediaType:   MediaType(in.MediaType),
		Status:      MediaStatus(in.Status),
		Rating:      in.Rating,
		Description: in.Description,
		Review:      in.Review,
		Creator:     in.Creator,
		Genre:       in.Genre,
		Tags:        in.Tags,
		ImageURL:    in.ImageURL,
		ReleaseDate: in.ReleaseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(itemsBucket)).CreateBucketIfNotExists([]byte(userID))
		if err != nil {
			return err
		}
		data, err := s.encode(item)
		if err != nil {
			return err
		}
		return b.Put([]byte(item.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem fetches a single media item owned by the user.
func (s *Store) GetItem(userID, itemID string) (*MediaItem, error) {
	var item MediaItem
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(itemsBucket)).Bucket([]byte(userID))
		if b == nil {
			return ErrNotFound
		}
		data := b.Get([]byte(itemID))
		if data == nil {
			return ErrNotFound
		}
		return s.decode(data, &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns the user's library, newest first, optionally filtered.
func (s *Store) ListItems(userID string, filters Filters) ([]MediaItem, error) {
	var items []MediaItem
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(itemsBucket)).Bucket([]byte(userID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var item MediaItem
			if err := s.decode(v, &item); err != nil {
				return err
			}
			if matchesFilters(item, filters) {
				items = append(items, item)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func matchesFilters(item MediaItem, f Filters) bool {
	if q := strings.TrimSpace(f.Q); q != "" {
		needle := strings.ToLower(q)
		if !strings.Contains(strings.ToLower(item.Title), needle) &&
			!strings.Contains(strings.ToLower(item.Creator), needle) &&
			!strings.Contains(strings.ToLower(item.Genre), needle) {
			return false
		}
	}
	if st := strings.TrimSpace(f.Status); st != "" && string(item.Status) != st {
		return false
	}
	if mt := strings.TrimSpace(f.MediaType); mt != "" && string(item.MediaType) != mt {
		return false
	}
	return true
}

// UpdateItem applies the non-nil fields of upd to an existing item.
func (s *Store) UpdateItem(userID, itemID string, upd ItemUpdate) (*MediaItem, error) {
	var item MediaItem
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(itemsBucket)).Bucket([]byte(userID))
		if b == nil {
			return ErrNotFound
		}
		data := b.Get([]byte(itemID))
		if data == nil {
			return ErrNotFound
		}
		if err := s.decode(data, &item); err != nil {
			return err
		}

		if upd.Title != nil {
			if strings.TrimSpace(*upd.Title) == "" {
				return fmt.Errorf("title cannot be empty")
			}
			item.Title = *upd.Title
		}
		if upd.MediaType != nil {
			if !ValidMediaType(*upd.MediaType) {
				return fmt.Errorf("invalid media_type: %q", *upd.MediaType)
			}
			item.MediaType = MediaType(*upd.MediaType)
		}
		if upd.Status != nil {
			if !ValidMediaStatus(*upd.Status) {
				return fmt.Errorf("invalid status: %q", *upd.Status)
			}
			item.Status = MediaStatus(*upd.Status)
		}
		if upd.Rating != nil {
			item.Rating = upd.Rating
		}
		if upd.Description != nil {
			item.Description = *upd.Description
		}
		if upd.Review != nil {
			item.Review = *upd.Review
		}
		if upd.Creator != nil {
			item.Creator = *upd.Creator
		}
		if upd.Genre != nil {
			item.Genre = *upd.Genre
		}
		if upd.Tags != nil {
			item.Tags = *upd.Tags
		}
		if upd.ImageURL != nil {
			item.ImageURL = *upd.ImageURL
		}
		if upd.ReleaseDate != nil {
			item.ReleaseDate = *upd.ReleaseDate
		}
		item.UpdatedAt = time.Now().UTC()

		encoded, err := s.encode(&item)
		if err != nil {
			return err
		}
		return b.Put([]byte(itemID), encoded)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item from the user's library.
func (s *Store) DeleteItem(userID, itemID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(itemsBucket)).Bucket([]byte(userID))
		if b == nil {
			return ErrNotFound
		}
		if b.Get([]byte(itemID)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(itemID))
	})
}

// FindItemByTitleAndType looks an item up by normalized title and media type.
// Used by the "remove from library" flow on the explore surface.
func (s *Store) FindItemByTitleAndType(userID, title, mediaType string) (*MediaItem, error) {
	items, err := s.ListItems(userID, Filters{MediaType: mediaType})
	if err != nil {
		return nil, err
	}
	normalized := utils.NormalizeTitle(title)
	for i := range items {
		if utils.NormalizeTitle(items[i].Title) == normalized {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}
