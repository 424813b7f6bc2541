package store

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const maxUsernameRetries = 10

var usernameSafe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func emailPrefix(email string) string {
	part := strings.SplitN(email, "@", 2)[0]
	if part == "" {
		part = "user"
	}
	part = usernameSafe.ReplaceAllString(part, "_")
	if len(part) > 32 {
		part = part[:32]
	}
	if part == "" {
		return "user"
	}
	return part
}

func randomSuffix() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}

// EnsureProfile creates a profiles row for the user if one does not exist,
// picking a unique username (email prefix + random 4 digits). Retries on
// username collision.
func (s *Store) EnsureProfile(userID, email string) (*Profile, error) {
	if existing, err := s.ProfileForUser(userID); err == nil {
		return existing, nil
	}

	baseName := emailPrefix(email)

	for attempt := 0; attempt < maxUsernameRetries; attempt++ {
		username := baseName + "_" + randomSuffix()
		now := time.Now().UTC()
		profile := &Profile{
			ID:        userID,
			Username:  username,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := s.db.Update(func(tx *bolt.Tx) error {
			names := tx.Bucket([]byte(usernamesBucket))
			if names.Get([]byte(username)) != nil {
				return ErrUsernameTaken
			}
			data, err := s.encode(profile)
			if err != nil {
				return err
			}
			if err := tx.Bucket([]byte(profilesBucket)).Put([]byte(userID), data); err != nil {
				return err
			}
			return names.Put([]byte(username), []byte(userID))
		})
		if err == ErrUsernameTaken {
			continue
		}
		if err != nil {
			return nil, err
		}
		return profile, nil
	}

	return nil, fmt.Errorf("could not create a unique profile username")
}

// ProfileForUser fetches a profile by user id.
func (s *Store) ProfileForUser(userID string) (*Profile, error) {
	var profile Profile
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(profilesBucket)).Get([]byte(userID))
		if data == nil {
			return ErrNotFound
		}
		return s.decode(data, &profile)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfileByUsername fetches a profile by username (for the public profile page).
func (s *Store) ProfileByUsername(username string) (*Profile, error) {
	var userID string
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket([]byte(usernamesBucket)).Get([]byte(username))
		if id == nil {
			return ErrNotFound
		}
		userID = string(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ProfileForUser(userID)
}

// UpdateProfile applies the non-nil fields of upd. The second return value
// reports whether visibility changed, so callers can invalidate suggestion
// caches on that transition.
func (s *Store) UpdateProfile(userID string, upd ProfileUpdate) (*Profile, bool, error) {
	var profile Profile
	visibilityChanged := false

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(profilesBucket))
		data := b.Get([]byte(userID))
		if data == nil {
			return ErrNotFound
		}
		if err := s.decode(data, &profile); err != nil {
			return err
		}

		if upd.DisplayName != nil {
			profile.DisplayName = strings.TrimSpace(*upd.DisplayName)
		}
		if upd.FirstName != nil {
			profile.FirstName = strings.TrimSpace(*upd.FirstName)
		}
		if upd.LastName != nil {
			profile.LastName = strings.TrimSpace(*upd.LastName)
		}
		if upd.IsPublic != nil && *upd.IsPublic != profile.IsPublic {
			profile.IsPublic = *upd.IsPublic
			visibilityChanged = true
		}
		profile.UpdatedAt = time.Now().UTC()

		encoded, err := s.encode(&profile)
		if err != nil {
			return err
		}
		return b.Put([]byte(userID), encoded)
	})
	if err != nil {
		return nil, false, err
	}
	return &profile, visibilityChanged, nil
}
