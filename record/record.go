package record

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TokenType distinguishes the two magic-link purposes. A token issued for
// one purpose is never redeemable as the other.
type TokenType string

const (
	// TypeLogin authenticates an existing, verified account.
	TypeLogin TokenType = "login"
	// TypeVerify confirms ownership of an email address.
	TypeVerify TokenType = "verify"
)

// Valid reports whether t is one of the known token types.
func (t TokenType) Valid() bool {
	return t == TypeLogin || t == TypeVerify
}

var (
	// ErrNotFound is returned by [Store.Get] when no record matches the
	// id and type.
	ErrNotFound = errors.New("token record not found")
	// ErrUnavailable wraps backend failures so callers can tell an outage
	// apart from a missing record.
	ErrUnavailable = errors.New("token record store unavailable")
)

// TokenRecord is one row per issued token. UsedAt, once set, is never
// cleared; ExpiresAt is never mutated after creation. A record is redeemable
// iff UsedAt is nil and the current time is before ExpiresAt.
type TokenRecord struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email     string    `gorm:"index;size:255;not null"`
	TokenType TokenType `gorm:"size:10;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Used reports whether the record has been redeemed.
func (r *TokenRecord) Used() bool {
	return r.UsedAt != nil
}

// Expired reports whether the record is past its expiry at the given time.
// Expiry is inclusive: a record checked exactly at ExpiresAt is expired.
func (r *TokenRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Redeemable reports whether the record can still be claimed at the given time.
func (r *TokenRecord) Redeemable(now time.Time) bool {
	return !r.Used() && !r.Expired(now)
}

// Store is the durable backend for token records. Implementations must make
// [Store.MarkUsed] an atomic conditional claim: under concurrent redemption
// of the same record exactly one caller may observe claimed=true.
type Store interface {
	// Create persists a new record. The record's ID must already be set.
	Create(ctx context.Context, rec *TokenRecord) error

	// Get returns the record with the given id and type, or [ErrNotFound].
	Get(ctx context.Context, id uuid.UUID, tokenType TokenType) (*TokenRecord, error)

	// MarkUsed sets UsedAt on the record iff it is still unused. It returns
	// claimed=false, with a nil error, when the record was already used or
	// does not exist.
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error)
}

// New builds an unused record expiring ttl from now. The ID is assigned here
// and is immutable afterwards.
func New(email string, tokenType TokenType, ttl time.Duration, now time.Time) *TokenRecord {
	return &TokenRecord{
		ID:        uuid.New(),
		Email:     email,
		TokenType: tokenType,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
