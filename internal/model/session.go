package model

import (
	"strconv"
	"time"
)

// Session binds an opaque cookie token to an authenticated user.
// The token itself is never stored; ID is a ULID used for logging.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired returns true once the session's lifetime has elapsed.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// CachedSession represents session data stored in a Redis hash.
// Uses string types for Redis hash compatibility.
type CachedSession struct {
	ID        string `redis:"id"`
	UserID    string `redis:"user_id"`
	Username  string `redis:"username"`
	CreatedAt string `redis:"created_at"` // Unix timestamp
	ExpiresAt string `redis:"expires_at"` // Unix timestamp
}

// ToCachedSession converts Session to its Redis representation.
func (s *Session) ToCachedSession() *CachedSession {
	return &CachedSession{
		ID:        s.ID,
		UserID:    strconv.FormatInt(s.UserID, 10),
		Username:  s.Username,
		CreatedAt: strconv.FormatInt(s.CreatedAt.Unix(), 10),
		ExpiresAt: strconv.FormatInt(s.ExpiresAt.Unix(), 10),
	}
}

// ToSession converts CachedSession back to the domain model.
// Returns false when the user id is missing or malformed.
func (c *CachedSession) ToSession() (*Session, bool) {
	userID, err := strconv.ParseInt(c.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return nil, false
	}

	session := &Session{
		ID:       c.ID,
		UserID:   userID,
		Username: c.Username,
	}

	if ts, err := strconv.ParseInt(c.CreatedAt, 10, 64); err == nil {
		session.CreatedAt = time.Unix(ts, 0).UTC()
	}
	if ts, err := strconv.ParseInt(c.ExpiresAt, 10, 64); err == nil {
		session.ExpiresAt = time.Unix(ts, 0).UTC()
	}

	return session, true
}
