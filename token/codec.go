package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DomainTag is the fixed issuer claim stamped into every envelope. A token
// signed with the same secret for any other purpose never opens here.
const DomainTag = "magic-link"

// ErrInvalid is the single rejection returned by [Codec.Open]. Signature
// failure, wrong issuer, staleness, and type mismatch are deliberately
// indistinguishable to the caller.
var ErrInvalid = errors.New("invalid magic link token")

// Config holds the codec's signing parameters.
type Config struct {
	// Secret is the HS256 signing key shared by all serving instances.
	Secret []byte
	// Leeway tolerates small clock skew between issuer and verifier.
	Leeway time.Duration
	// TimeFunc overrides the clock for both sealing and verification.
	// Nil means time.Now. Intended for tests.
	TimeFunc func() time.Time
}

// Claims is the envelope payload. TokenType mirrors the record's type so a
// verification link cannot be replayed as a login link; the registered ID
// claim (jti) references the durable record.
type Claims struct {
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies magic-link envelopes. Instances are immutable
// after construction and safe for concurrent use.
type Codec struct {
	config Config

	now func() time.Time
}

// NewCodec validates the config and returns a ready codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("token codec secret must be at least 32 bytes")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	now := cfg.TimeFunc
	if now == nil {
		now = time.Now
	}
	return &Codec{config: cfg, now: now}, nil
}

// Seal produces the signed, URL-safe envelope string. expiresAt duplicates
// the record's expiry so the envelope can be rejected without a store
// round-trip; the issuance timestamp is stamped here.
func (c *Codec) Seal(email, tokenID, tokenType string, expiresAt time.Time) (string, error) {
	now := c.now()
	claims := Claims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    DomainTag,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Secret)
}

// Open verifies the envelope and returns its claims. maxAge bounds the
// envelope's age from its own issuance timestamp, independently of the exp
// claim and of the record's expiry. expectedType must match the embedded
// token type exactly.
func (c *Codec) Open(tokenStr string, maxAge time.Duration, expectedType string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(DomainTag),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.config.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil || claims.ID == "" {
		return nil, ErrInvalid
	}
	if c.now().Sub(claims.IssuedAt.Time) > maxAge {
		return nil, ErrInvalid
	}
	if claims.TokenType != expectedType {
		return nil, ErrInvalid
	}

	return claims, nil
}
