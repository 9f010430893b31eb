// Package magiclink implements passwordless ("magic link") authentication:
// a user supplies an email address, receives a time-limited single-use token
// by email, and presenting that token within its validity window
// authenticates or verifies the account.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// magiclink is the public surface. It exposes [Engine], [Builder], [Config],
// the sentinel errors, and the audit/metrics value types. The token codec
// lives in the token package, the durable record store in the record
// package, SMTP delivery in the mailer package, and the Redis counter
// limiter under internal/ where it is never exported.
//
// # Token trust model
//
// Every issued token is two things at once: a signed envelope (tamper
// evidence, staleness) and a durable record (single use, revocability).
// Redemption requires both to pass. The signature alone never authenticates
// anyone, which is what lets a token be invalidated after issuance without
// rotating the signing secret.
//
// # What this package must NOT do
//
//   - Render pages, manage user accounts, or create sessions; the HTTP
//     layer owns those side effects.
//   - Expose Redis clients, store handles, or codec internals in its
//     public API.
//   - Distinguish token rejection reasons to callers. All token failures
//     read as [ErrTokenInvalid]; the reason goes to the audit sink only.
package magiclink
