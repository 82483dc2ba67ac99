package cache

import (
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestHashIP(t *testing.T) {
	t.Parallel()

	ips := []string{"192.168.1.1", "192.168.1.2", "127.0.0.1", "::1", "2001:db8::8a2e:370:7334", ""}
	seen := make(map[string]string, len(ips))
	for _, ip := range ips {
		h := hashIP(ip)
		assert.Len(t, h, 16, ip)
		assert.Equal(t, h, hashIP(ip), "hash of %q should be stable", ip)
		if other, dup := seen[h]; dup {
			t.Errorf("%q and %q share hash %s", ip, other, h)
		}
		seen[h] = ip
	}
}

func TestRateLimitKey_ScopedAndHashed(t *testing.T) {
	t.Parallel()

	ip := "203.0.113.7"
	key := rateLimitKey("auth", ip)

	assert.True(t, strings.HasPrefix(key, "ratelimit:ip:auth:"), key)
	assert.NotContains(t, key, ip)
	assert.NotEqual(t, key, rateLimitKey("other", ip))
}

func TestCheckIPRateLimit_RejectsBadSettings(t *testing.T) {
	t.Parallel()

	c := NewFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	defer c.Close()

	_, err := c.CheckIPRateLimit(t.Context(), "auth", "198.51.100.1", 0, 10)
	assert.Error(t, err)
	_, err = c.CheckIPRateLimit(t.Context(), "auth", "198.51.100.1", 5, 0)
	assert.Error(t, err)
}

func TestWithPoolDefaults_KeepsURLOptions(t *testing.T) {
	t.Parallel()

	opt, err := redis.ParseURL("redis://localhost:6379/0?pool_size=25")
	assert.NoError(t, err)

	withPoolDefaults(opt)
	assert.Equal(t, 25, opt.PoolSize)
	assert.Equal(t, 2, opt.MinIdleConns)
}

func TestUserSessionsKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "session:user:42", userSessionsKey(42))
}
