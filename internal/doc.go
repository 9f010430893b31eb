// Package internal contains helpers that are intentionally private to magiclink.
//
// # Sub-packages
//
//   - rate — Redis-backed fixed-window rate limit primitives
//
// # What this package must NOT do
//
//   - Export types that appear in the public magiclink API.
//   - Be imported by any package outside the magiclink module.
package internal
