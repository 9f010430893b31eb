package rate

import "errors"

var (
	// ErrRedisUnavailable wraps counter-store failures. An unreachable
	// store never reads as "not limited".
	ErrRedisUnavailable = errors.New("rate limiter redis unavailable")
)
