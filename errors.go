package magiclink

import "errors"

var (
	// ErrTokenInvalid covers every token rejection: bad signature, wrong
	// type, stale, not found, already used, or expired. The reasons are
	// deliberately collapsed so callers cannot be used as an oracle for
	// which check failed.
	ErrTokenInvalid = errors.New("invalid magic link token")
	// ErrRateLimited means the (action, identifier) pair exhausted its
	// window quota. Recoverable; the caller retries after the window.
	ErrRateLimited = errors.New("rate limited")
	// ErrStoreUnavailable means the counter or record backend was
	// unreachable. It is never reported as "not limited" or "not found".
	ErrStoreUnavailable = errors.New("backend store unavailable")
	// ErrEmailInvalid rejects a malformed or empty email before any
	// record is created.
	ErrEmailInvalid = errors.New("invalid email address")
	// ErrUnknownTokenType rejects token types other than login and verify.
	ErrUnknownTokenType = errors.New("unknown token type")
	// ErrUnknownAction rejects rate-limit actions with no configured quota.
	ErrUnknownAction = errors.New("unknown rate limit action")
	// ErrMailerNotConfigured is returned by the send helpers when the
	// engine was built without a mailer.
	ErrMailerNotConfigured = errors.New("mailer not configured")
	// ErrEngineNotReady guards use of a hand-constructed, incomplete Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
