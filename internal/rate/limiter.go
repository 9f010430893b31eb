package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rate"

// limitScript reads and conditionally increments the counter in one atomic
// step. A counter at or over the limit is left untouched; otherwise it is
// incremented and its TTL refreshed to the full window.
var limitScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
	return 1
end
redis.call("SET", KEYS[1], current + 1, "EX", ARGV[2])
return 0
`)

// Limiter enforces fixed-window quotas on Redis counters keyed by
// (action, identifier). Identifiers must be normalized by the caller so
// case variants of one email share a counter.
type Limiter struct {
	redis redis.UniversalClient
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient) *Limiter {
	return &Limiter{redis: redisClient}
}

// Limited reports whether the (action, identifier) pair has exhausted its
// quota for the current window. When the quota is not exhausted the counter
// is incremented and the window TTL refreshed as a side effect.
func (l *Limiter) Limited(ctx context.Context, action, identifier string, limit int, window time.Duration) (bool, error) {
	seconds := int(window / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	res, err := limitScript.Run(ctx, l.redis, []string{counterKey(action, identifier)}, limit, seconds).Int()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return res == 1, nil
}

// Count returns the current counter value for the pair. Missing or expired
// counters read as zero.
func (l *Limiter) Count(ctx context.Context, action, identifier string) (int, error) {
	count, err := l.redis.Get(ctx, counterKey(action, identifier)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return count, nil
}

func counterKey(action, identifier string) string {
	return keyPrefix + ":" + action + ":" + identifier
}
