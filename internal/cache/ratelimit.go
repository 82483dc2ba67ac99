package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitIPPrefix namespaces per-IP buckets; the scope and a digest of the
// IP follow it, e.g. ratelimit:ip:auth:<16 hex chars>.
const rateLimitIPPrefix = "ratelimit:ip:"

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and takes one token atomically. Times are in
// milliseconds so sub-second refills are not lost. The key expires once the
// bucket would be full again, so idle clients leave nothing behind.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per millisecond
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])       -- unix milliseconds
	local ttl = tonumber(ARGV[4])       -- milliseconds

	local data = redis.call('HMGET', key, 'tokens', 'ts')
	local tokens = tonumber(data[1]) or burst
	local ts = tonumber(data[2]) or now

	tokens = math.min(burst, tokens + (math.max(0, now - ts) * rate))

	local allowed = 0
	local wait = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		wait = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'ts', now)
	redis.call('PEXPIRE', key, ttl)

	return {allowed, wait, math.floor(tokens)}
`)

// CheckIPRateLimit takes one token from the bucket of ip within scope.
// Raw IPs never reach Redis; the key holds a truncated SHA-256 digest.
func (c *Cache) CheckIPRateLimit(ctx context.Context, scope, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 || burst <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d/s burst %d", ratePerSecond, burst)
	}

	perMs := float64(ratePerSecond) / 1000
	refill := time.Duration(math.Ceil(float64(burst)/float64(ratePerSecond))) * time.Second
	now := time.Now()

	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{rateLimitKey(scope, ip)},
		perMs, burst, now.UnixMilli(), refill.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}

	result := &RateLimitResult{
		Allowed:   res[0] == 1,
		Remaining: res[2],
		ResetAt:   now.Add(time.Second / time.Duration(ratePerSecond)),
	}
	if !result.Allowed {
		result.RetryAfter = time.Duration(res[1]) * time.Millisecond
		result.ResetAt = now.Add(result.RetryAfter)
	}
	return result, nil
}

func rateLimitKey(scope, ip string) string {
	return rateLimitIPPrefix + scope + ":" + hashIP(ip)
}

// hashIP returns the first 8 bytes of SHA-256(ip) as hex.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
