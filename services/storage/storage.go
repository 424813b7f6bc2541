package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"media-tracker-go/logcolors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// PathPrefix marks an image_url value as a reference into poster
// storage rather than an external URL.
const PathPrefix = "media-posters:"

var (
	ErrInvalidPath      = errors.New("storage: invalid path")
	ErrInvalidSignature = errors.New("storage: invalid signature")
	ErrExpired          = errors.New("storage: signed URL expired")
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

const maxFilenameLength = 80

// Storage holds uploaded poster files on disk and mints signed URLs
// for time-limited access.
type Storage struct {
	root   string
	secret []byte
}

func New(root, secret string) (*Storage, error) {
	if secret == "" {
		return nil, errors.New("storage: signing secret is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create root %s: %w", root, err)
	}
	return &Storage{root: root, secret: []byte(secret)}, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(name) > maxFilenameLength {
		name = name[len(name)-maxFilenameLength:]
	}
	if name == "" || name == "." {
		name = "poster"
	}
	return name
}

// SavePoster writes an uploaded poster and returns its storage path
// ({userID}/{uuid}-{filename}).
func (s *Storage) SavePoster(userID, filename string, r io.Reader) (string, error) {
	if userID == "" {
		return "", ErrInvalidPath
	}

	name := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFilename(filename))
	relPath := userID + "/" + name

	dir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: failed to create directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("storage: failed to write file: %w", err)
	}

	log.Debugf("%s Saved poster %s", logcolors.LogStorage, relPath)
	return relPath, nil
}

func (s *Storage) sign(path string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%d", path, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedURL mints a time-limited URL for a stored poster, along with
// its expiry time.
func (s *Storage) SignedURL(path string, ttl time.Duration) (string, time.Time) {
	expiresAt := time.Now().Add(ttl)
	exp := expiresAt.Unix()
	sig := s.sign(path, exp)
	return fmt.Sprintf("/posters/file/%s?exp=%d&sig=%s", path, exp, sig), expiresAt
}

// Verify checks a signed URL's signature and expiry.
func (s *Storage) Verify(path string, exp int64, sig string) error {
	expected := s.sign(path, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	if time.Now().Unix() > exp {
		return ErrExpired
	}
	return nil
}

// FilePath resolves a storage path to an absolute file path, rejecting
// traversal outside the storage root.
func (s *Storage) FilePath(path string) (string, error) {
	if path == "" || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

// StripPrefix returns the storage path inside a prefixed reference,
// and whether the reference was prefixed at all.
func StripPrefix(ref string) (string, bool) {
	if strings.HasPrefix(ref, PathPrefix) {
		return strings.TrimPrefix(ref, PathPrefix), true
	}
	return "", false
}
