package magiclink

import (
	"net/mail"
	"strings"
	"time"

	"github.com/OhACD/magiclink/internal/rate"
	"github.com/OhACD/magiclink/mailer"
	"github.com/OhACD/magiclink/record"
	"github.com/OhACD/magiclink/token"
)

// tokenCodec is the sealing/verification surface the engine needs.
// [token.Codec] satisfies it.
type tokenCodec interface {
	Seal(email, tokenID, tokenType string, expiresAt time.Time) (string, error)
	Open(tokenStr string, maxAge time.Duration, expectedType string) (*token.Claims, error)
}

// Engine orchestrates the token lifecycle: rate-limited issuance, signed
// envelope sealing, and exactly-once redemption against the record store.
// Build one through [Builder]; a built Engine is immutable and safe for
// concurrent use.
type Engine struct {
	config  Config
	codec   tokenCodec
	store   record.Store
	limiter *rate.Limiter
	mailer  mailer.Mailer
	audit   *auditDispatcher
	metrics *Metrics

	now func() time.Time
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) timeNow() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

func (e *Engine) tokenConfig(tokenType TokenType) (TokenConfig, error) {
	switch tokenType {
	case TokenLogin:
		return e.config.Login, nil
	case TokenVerify:
		return e.config.Verify, nil
	default:
		return TokenConfig{}, ErrUnknownTokenType
	}
}

// normalizeEmail lower-cases and trims so case variants of one address map
// to the same identity everywhere (records, counters, lookups).
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject "Name <addr>" forms; the engine wants the bare address.
	return addr.Address == email
}
