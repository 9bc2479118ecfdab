package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// ErrInvalidToken is returned for missing, unknown, or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

const (
	bucketSessions = "sessions"
	sessionTTL     = 24 * time.Hour
)

// Session identifies the logged-in operator behind a bearer token. Name is
// recorded as the entry person on records created during the session.
type Session struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenStore keeps bearer sessions in a bbolt file so logins survive
// server restarts.
type TokenStore struct {
	db *bolt.DB
}

func NewTokenStore(dbPath string) (*TokenStore, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open token database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSessions))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions bucket: %w", err)
	}

	return &TokenStore{db: db}, nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}

// Issue creates a new bearer token for the given operator.
func (s *TokenStore) Issue(userID int64, name, email string) (string, error) {
	token := uuid.NewString()
	session := Session{
		UserID:    userID,
		Name:      name,
		Email:     email,
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Put([]byte(token), data)
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Validate resolves a bearer token to its session. Expired tokens are
// deleted on sight.
func (s *TokenStore) Validate(token string) (Session, error) {
	var session Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketSessions)).Get([]byte(token))
		if data == nil {
			return ErrInvalidToken
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.Revoke(token)
		return Session{}, ErrInvalidToken
	}

	return session, nil
}

// Revoke deletes a token, logging the session out.
func (s *TokenStore) Revoke(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Delete([]byte(token))
	})
}
