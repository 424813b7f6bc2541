package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers a new account. The email is stored lowercased and must
// be unique; passwords are bcrypt hashed.
func (s *Store) CreateUser(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(usersBucket))
		if b.Get([]byte(email)) != nil {
			return ErrEmailTaken
		}
		data, err := s.encode(user)
		if err != nil {
			return err
		}
		return b.Put([]byte(email), data)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies email/password and returns the matching user.
func (s *Store) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user User
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(usersBucket)).Get([]byte(email))
		if data == nil {
			return ErrInvalidCredentials
		}
		return s.decode(data, &user)
	})
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CreateSession issues an opaque bearer token for the user with the given TTL.
func (s *Store) CreateSession(userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString() + uuid.NewString()
	sess := session{
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := s.encode(&sess)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(sessionsBucket)).Put([]byte(token), data)
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// UserForSession resolves a session token to a user id. Expired or unknown
// tokens resolve to "no user" rather than an error; expired tokens are deleted.
func (s *Store) UserForSession(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	var sess session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(sessionsBucket)).Get([]byte(token))
		if data == nil {
			return ErrNotFound
		}
		return s.decode(data, &sess)
	})
	if err != nil {
		return "", false
	}

	if time.Now().UTC().After(sess.ExpiresAt) {
		s.DeleteSession(token)
		return "", false
	}
	return sess.UserID, true
}

// DeleteSession removes a session token. Unknown tokens are a no-op.
func (s *Store) DeleteSession(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Delete([]byte(token))
	})
}
