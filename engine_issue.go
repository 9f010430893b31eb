package magiclink

import (
	"context"
	"errors"
	"fmt"

	"github.com/OhACD/magiclink/record"
)

// errSealFailed marks the codec refusing to sign during issuance. It is a
// codec fault, not a store outage, and is kept apart from [ErrStoreUnavailable].
var errSealFailed = errors.New("magic link seal failed")

// Issue creates an unused token record expiring after the type's TTL and
// returns the signed, URL-safe string referencing it. The record is written
// before the envelope is sealed; if sealing or downstream delivery fails,
// the orphaned record never becomes redeemable through any other path and
// ages out at its expiry.
//
// Issue does not rate-limit. The caller gates it with [Engine.CheckRateLimit]
// so one limiter decision can cover the whole request, validation included.
func (e *Engine) Issue(ctx context.Context, email string, tokenType TokenType) (string, error) {
	if e == nil || e.store == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}

	cfg, err := e.tokenConfig(tokenType)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventIssue, false, email, "", err, nil)
		return "", err
	}

	email = normalizeEmail(email)
	if !validEmail(email) {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventIssue, false, email, "", ErrEmailInvalid, nil)
		return "", ErrEmailInvalid
	}

	rec := record.New(email, tokenType, cfg.TTL, e.timeNow())
	if err := e.store.Create(ctx, rec); err != nil {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventIssue, false, email, "", ErrStoreUnavailable, func() map[string]string {
			return map[string]string{
				"reason": "record_create_failed",
			}
		})
		return "", ErrStoreUnavailable
	}

	sealed, err := e.codec.Seal(email, rec.ID.String(), string(tokenType), rec.ExpiresAt)
	if err != nil {
		// The unused record is harmless; it simply expires.
		wrapped := fmt.Errorf("%w: %v", errSealFailed, err)
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventIssue, false, email, rec.ID.String(), wrapped, func() map[string]string {
			return map[string]string{
				"reason": "seal_failed",
			}
		})
		return "", wrapped
	}

	switch tokenType {
	case TokenLogin:
		e.metricInc(MetricIssueLogin)
	case TokenVerify:
		e.metricInc(MetricIssueVerify)
	}
	e.emitAudit(ctx, auditEventIssue, true, email, rec.ID.String(), nil, func() map[string]string {
		return map[string]string{
			"token_type": string(tokenType),
		}
	})

	return sealed, nil
}
