package magiclink

import (
	"errors"
	"time"
)

// Config defines the engine's tunables. Instances are cloned at Build time
// and treated as immutable afterwards.
type Config struct {
	// Secret signs every token envelope. All serving instances must share
	// it. Minimum 32 bytes.
	Secret []byte

	// Leeway tolerates clock skew between the instance that sealed a
	// token and the one opening it.
	Leeway time.Duration

	Login     TokenConfig
	Verify    TokenConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls one token purpose.
type TokenConfig struct {
	// TTL bounds the record's lifetime: expiresAt = now + TTL.
	TTL time.Duration
	// MaxAge bounds the envelope's age from its issuance timestamp,
	// independently of the record. Zero means "same as TTL".
	MaxAge time.Duration
}

func (c TokenConfig) maxAge() time.Duration {
	if c.MaxAge > 0 {
		return c.MaxAge
	}
	return c.TTL
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// ActionLimit is one action's fixed-window quota.
type ActionLimit struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig maps action prefixes ("login", "register", ...) to their
// quotas. Unknown actions are rejected rather than silently allowed.
type RateLimitConfig struct {
	Actions map[string]ActionLimit
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the lock-free counter set.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig mirrors the limits and lifetimes of the original system:
// login links live 30 minutes, verification links 24 hours, login requests
// are capped at 5 per 15 minutes and registrations at 3 per hour.
func DefaultConfig() Config {
	return Config{
		Leeway: 30 * time.Second,
		Login: TokenConfig{
			TTL: 30 * time.Minute,
		},
		Verify: TokenConfig{
			TTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Actions: map[string]ActionLimit{
				"login":    {Limit: 5, Window: 15 * time.Minute},
				"register": {Limit: 3, Window: time.Hour},
			},
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the engine cannot run safely with.
func (c Config) Validate() error {
	if len(c.Secret) < 32 {
		return errors.New("Secret must be at least 32 bytes")
	}
	if c.Leeway < 0 || c.Leeway > 2*time.Minute {
		return errors.New("Leeway must be between 0 and 2 minutes")
	}
	if c.Login.TTL <= 0 || c.Verify.TTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Login.MaxAge < 0 || c.Verify.MaxAge < 0 {
		return errors.New("token MaxAge must not be negative")
	}
	for action, limit := range c.RateLimit.Actions {
		if action == "" {
			return errors.New("rate limit action name must not be empty")
		}
		if limit.Limit <= 0 {
			return errors.New("rate limit Limit must be positive for action " + action)
		}
		if limit.Window < time.Second {
			return errors.New("rate limit Window must be at least one second for action " + action)
		}
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Secret = cloneBytes(cfg.Secret)
	if cfg.RateLimit.Actions != nil {
		actions := make(map[string]ActionLimit, len(cfg.RateLimit.Actions))
		for action, limit := range cfg.RateLimit.Actions {
			actions[action] = limit
		}
		out.RateLimit.Actions = actions
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
