// Package token seals and opens the signed envelope a magic link carries.
//
// The envelope is an HS256 JWT binding an email address to the id of a
// durable token record. The signature and the issuer tag make the envelope
// tamper-evident and domain-separated; staleness and expiry are checked
// here, but single use is not; that lives with the record store. Every
// verification failure collapses into [ErrInvalid] so callers cannot tell
// which check rejected a token.
package token
