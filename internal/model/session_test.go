package model

import (
	"testing"
	"time"
)

func TestSession_CachedRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	session := &Session{
		ID:        "01HZX3J8Q7M2Y6W5V4T3S2R1P0",
		UserID:    42,
		Username:  "sleeper",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	cached := session.ToCachedSession()
	if cached.UserID != "42" {
		t.Errorf("UserID = %s, want 42", cached.UserID)
	}

	restored, ok := cached.ToSession()
	if !ok {
		t.Fatal("ToSession() returned !ok for a valid entry")
	}
	if restored.UserID != 42 || restored.Username != "sleeper" || restored.ID != session.ID {
		t.Errorf("restored session = %+v, want %+v", restored, session)
	}
	if !restored.ExpiresAt.Equal(session.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", restored.ExpiresAt, session.ExpiresAt)
	}
}

func TestCachedSession_ToSession_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cached CachedSession
	}{
		{"empty", CachedSession{}},
		{"non numeric user", CachedSession{UserID: "abc"}},
		{"zero user", CachedSession{UserID: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := tt.cached.ToSession(); ok {
				t.Error("ToSession() should reject the entry")
			}
		})
	}
}

func TestSession_IsExpired(t *testing.T) {
	t.Parallel()

	if (&Session{ExpiresAt: time.Now().Add(time.Minute)}).IsExpired() {
		t.Error("future expiry should not be expired")
	}
	if !(&Session{ExpiresAt: time.Now().Add(-time.Minute)}).IsExpired() {
		t.Error("past expiry should be expired")
	}
}
