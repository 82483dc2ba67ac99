//go:build integration

package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/dreamjournal/dreamjournal/internal/auth"
	"github.com/dreamjournal/dreamjournal/internal/testutil"
)

func newSessionTestEnv(t *testing.T, ttl time.Duration) *SessionStore {
	t.Helper()
	_, client := testutil.OpenTestRedis(t)
	return NewSessionStore(NewFromClient(client), ttl)
}

func TestIntegrationSession_CreateGetDelete(t *testing.T) {
	store := newSessionTestEnv(t, time.Hour)
	ctx := t.Context()

	token, session, err := store.Create(ctx, 7, "sleeper")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.ID == "" {
		t.Error("session should carry a ULID")
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != 7 || got.Username != "sleeper" {
		t.Errorf("unexpected session: %+v", got)
	}

	// The plaintext token must never be used as a key
	exists, err := store.client.Exists(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists != 0 {
		t.Error("plaintext token should not be stored")
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestIntegrationSession_UnknownAndMalformedTokens(t *testing.T) {
	store := newSessionTestEnv(t, time.Hour)
	ctx := t.Context()

	for _, token := range []string{"", "not-a-token", "0000000000000000000000000000000000000000000000000000000000000000"} {
		if _, err := store.Get(ctx, token); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrSessionNotFound", token, err)
		}
		if err := store.Delete(ctx, token); err != nil {
			t.Errorf("Delete(%q) should be a no-op, got %v", token, err)
		}
	}
}

func TestIntegrationSession_DeleteUserSessions(t *testing.T) {
	store := newSessionTestEnv(t, time.Hour)
	ctx := t.Context()

	first, _, err := store.Create(ctx, 9, "twice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, _, err := store.Create(ctx, 9, "twice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	other, _, err := store.Create(ctx, 10, "bystander")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteUserSessions(ctx, 9); err != nil {
		t.Fatalf("DeleteUserSessions failed: %v", err)
	}

	for _, token := range []string{first, second} {
		if _, err := store.Get(ctx, token); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("session should be revoked, got %v", err)
		}
	}
	if _, err := store.Get(ctx, other); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}
}

func TestIntegrationSession_ExpiresWithTTL(t *testing.T) {
	store := newSessionTestEnv(t, time.Second)
	ctx := t.Context()

	token, _, err := store.Create(ctx, 3, "napper")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ttl, err := store.client.TTL(ctx, sessionKeyPrefix+hashForTest(token)).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > time.Second {
		t.Errorf("session key TTL = %v, want (0, 1s]", ttl)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session error = %v, want ErrSessionNotFound", err)
	}
}

func TestIntegrationRateLimit_AuthBucket(t *testing.T) {
	_, client := testutil.OpenTestRedis(t)
	c := NewFromClient(client)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		res, err := c.CheckIPRateLimit(ctx, "auth", "198.51.100.1", 1, 3)
		if err != nil {
			t.Fatalf("CheckIPRateLimit failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}

	res, err := c.CheckIPRateLimit(ctx, "auth", "198.51.100.1", 1, 3)
	if err != nil {
		t.Fatalf("CheckIPRateLimit failed: %v", err)
	}
	if res.Allowed {
		t.Error("request beyond burst should be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter should be positive, got %v", res.RetryAfter)
	}

	res, err = c.CheckIPRateLimit(ctx, "auth", "198.51.100.2", 1, 3)
	if err != nil {
		t.Fatalf("CheckIPRateLimit failed: %v", err)
	}
	if !res.Allowed {
		t.Error("a different IP should have its own bucket")
	}
}

func hashForTest(token string) string {
	return auth.HashToken(token)
}
