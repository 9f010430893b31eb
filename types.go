package magiclink

import (
	"time"

	"github.com/google/uuid"

	"github.com/OhACD/magiclink/record"
)

// TokenType is re-exported from the record package so most callers only
// import magiclink.
type TokenType = record.TokenType

const (
	// TokenLogin issues and redeems login links.
	TokenLogin = record.TypeLogin
	// TokenVerify issues and redeems email-verification links.
	TokenVerify = record.TypeVerify
)

// Payload is returned by [Engine.Redeem] on success. It carries everything
// the caller needs to perform the authenticated side effect: the bound
// email, plus the record identity for audit trails.
type Payload struct {
	Email     string
	TokenID   uuid.UUID
	TokenType TokenType
	ExpiresAt time.Time
}
