package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dreamjournal/dreamjournal/internal/auth"
	"github.com/dreamjournal/dreamjournal/internal/model"
)

// Session key layout:
//
//	session:<sha256(token)>      hash with the CachedSession fields
//	session:user:<user id>       set of token digests owned by the user
const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "session:user:"
)

// ErrSessionNotFound is returned for unknown, expired, or malformed tokens.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side sessions in Redis.
// Only token digests are stored; the plaintext token lives in the cookie.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore whose sessions live for ttl.
func NewSessionStore(c *Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{client: c.client, ttl: ttl}
}

// Create starts a session for the user and returns the plaintext token.
func (s *SessionStore) Create(ctx context.Context, userID int64, username string) (string, *model.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	digest := auth.HashToken(token)
	key := sessionKeyPrefix + digest
	userKey := userSessionsKey(userID)
	cached := session.ToCachedSession()

	fields := map[string]any{
		"id":         cached.ID,
		"user_id":    cached.UserID,
		"username":   cached.Username,
		"created_at": cached.CreatedAt,
		"expires_at": cached.ExpiresAt,
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.ttl)
	pipe.SAdd(ctx, userKey, digest)
	pipe.Expire(ctx, userKey, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	return token, session, nil
}

// Get resolves a plaintext token to its session.
// Returns ErrSessionNotFound if the token is unknown or malformed.
func (s *SessionStore) Get(ctx context.Context, token string) (*model.Session, error) {
	if err := auth.ValidateTokenFormat(token); err != nil {
		return nil, ErrSessionNotFound
	}

	key := sessionKeyPrefix + auth.HashToken(token)

	result, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrSessionNotFound
	}

	cached := &model.CachedSession{
		ID:        result["id"],
		UserID:    result["user_id"],
		Username:  result["username"],
		CreatedAt: result["created_at"],
		ExpiresAt: result["expires_at"],
	}

	session, ok := cached.ToSession()
	if !ok || session.IsExpired() {
		// Corrupted or stale entry - drop it and treat as a miss
		s.client.Del(ctx, key)
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// Delete ends the session behind token. Unknown tokens are a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := auth.ValidateTokenFormat(token); err != nil {
		return nil
	}

	digest := auth.HashToken(token)
	key := sessionKeyPrefix + digest

	userID, err := s.client.HGet(ctx, key, "user_id").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis hget failed: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if userID != "" {
		pipe.SRem(ctx, userSessionKeyPrefix+userID, digest)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions ends every session of a user.
func (s *SessionStore) DeleteUserSessions(ctx context.Context, userID int64) error {
	userKey := userSessionsKey(userID)

	digests, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("redis smembers failed: %w", err)
	}

	keys := make([]string, 0, len(digests)+1)
	for _, digest := range digests {
		keys = append(keys, sessionKeyPrefix+digest)
	}
	keys = append(keys, userKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func userSessionsKey(userID int64) string {
	return userSessionKeyPrefix + strconv.FormatInt(userID, 10)
}
