package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"postgres://dream:s3cret@db:5432/dreams", "postgres://dream@db:5432/dreams"},
		{"redis://:s3cret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"redis://cache:6379", "redis://cache:6379"},
	}
	for _, tt := range tests {
		if got := redactURL(tt.raw); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	secret := "postgres://dream:s3cret@db:5432/dreams"
	err := errors.New("dial " + secret + " failed: password=s3cret")

	got := sanitizeError(err, secret)
	if strings.Contains(got, "s3cret") {
		t.Errorf("secret leaked: %s", got)
	}
	if !strings.Contains(got, "password=redacted") {
		t.Errorf("expected password pair to be redacted: %s", got)
	}
	if sanitizeError(nil) != "" {
		t.Error("expected empty string for nil error")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
