// Package rate provides the Redis-backed fixed-window counter that gates
// magic-link issuance per action and per identifier.
//
// # Window semantics
//
// Fixed-window counters, one key per (action, identifier) pair under the
// "rate:" prefix. The read-and-increment runs as a single Lua script, so
// concurrent callers never race past the limit. A saturated counter is not
// incremented further; its TTL stops being refreshed and the window expires
// on schedule instead of sliding forward under continued abuse.
//
// A burst of up to 2×limit can span a window boundary. That imprecision is
// the accepted cost of fixed windows; it is not a bug.
//
// # What this package must NOT do
//
//   - Decide per-action limits (those live in the engine config).
//   - Be imported outside the magiclink module.
package rate
