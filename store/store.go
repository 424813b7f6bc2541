package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"media-tracker-go/logcolors"
	"media-tracker-go/utils"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const (
	usersBucket     = "users"
	usernamesBucket = "usernames"
	profilesBucket  = "profiles"
	itemsBucket     = "media_items"
	sessionsBucket  = "sessions"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering with an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email/password authentication fails.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUsernameTaken is returned when a profile username collides.
	ErrUsernameTaken = errors.New("username already taken")
)

// Store wraps BoltDB with optional gzip compression of stored values.
// It holds users, profiles, sessions, and per-user media item buckets.
type Store struct {
	db                 *bolt.DB
	dbPath             string
	compressionEnabled bool
}

// New opens (creating if needed) the store database at dbPath.
func New(dbPath string, compressionEnabled bool) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %v", err)
	}

	if info, err := os.Stat(dbPath); err == nil {
		log.Infof("%s Found existing database file at: %s (size: %d bytes)", logcolors.LogStoreInit, dbPath, info.Size())
	} else {
		log.Infof("%s Creating new database file at: %s", logcolors.LogStoreInit, dbPath)
	}

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %v", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{usersBucket, usernamesBucket, profilesBucket, itemsBucket, sessionsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create store buckets: %v", err)
	}

	log.Infof("%s Store initialized at %s (compression: %v)", logcolors.LogStore, dbPath, compressionEnabled)
	return &Store{db: db, dbPath: dbPath, compressionEnabled: compressionEnabled}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// encode marshals v to JSON, compressing when enabled.
func (s *Store) encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !s.compressionEnabled {
		return data, nil
	}
	compressed, err := utils.CompressString(string(data))
	if err != nil {
		return nil, err
	}
	return []byte(compressed), nil
}

// decode unmarshals data into v, decompressing when enabled.
func (s *Store) decode(data []byte, v interface{}) error {
	raw := string(data)
	if s.compressionEnabled {
		decompressed, err := utils.DecompressString(raw)
		if err != nil {
			return err
		}
		raw = decompressed
	}
	return json.Unmarshal([]byte(raw), v)
}

// Stats returns the number of keys and approximate stored size across all buckets.
func (s *Store) Stats() (numKeys int, sizeInKB int) {
	s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			return countBucket(b, &numKeys, &sizeInKB)
		})
	})
	sizeInKB = sizeInKB / 1024
	return
}

func countBucket(b *bolt.Bucket, numKeys, size *int) error {
	return b.ForEach(func(k, v []byte) error {
		if v == nil {
			if nested := b.Bucket(k); nested != nil {
				return countBucket(nested, numKeys, size)
			}
			return nil
		}
		*numKeys++
		*size += len(k) + len(v)
		return nil
	})
}
