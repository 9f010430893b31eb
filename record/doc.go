// Package record owns the durable state behind issued magic-link tokens.
//
// A [TokenRecord] is the revocable half of a token: its signature can stay
// valid forever, but the record decides whether the token is still
// redeemable. Records are created once, marked used at most once, and never
// deleted by this package; retention is the embedding application's concern.
package record
