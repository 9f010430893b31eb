package magiclink

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/OhACD/magiclink/record"
)

// Redeem verifies the signed string and claims its record exactly once.
// The envelope check (signature, domain tag, staleness, type) is the first
// gate; the record lookup is the authoritative second one: absent, already
// used, or expired records reject the token regardless of its signature.
// Marking the record used is a single atomic conditional write, so N
// concurrent redemptions of the same string produce exactly one success.
//
// Every token failure surfaces as [ErrTokenInvalid]. The specific reason is
// only visible through the audit sink.
func (e *Engine) Redeem(ctx context.Context, tokenStr string, tokenType TokenType) (*Payload, error) {
	if e == nil || e.store == nil || e.codec == nil {
		return nil, ErrEngineNotReady
	}

	cfg, err := e.tokenConfig(tokenType)
	if err != nil {
		e.metricInc(MetricRedeemFailure)
		e.emitAudit(ctx, auditEventRedeem, false, "", "", err, nil)
		return nil, err
	}

	if tokenStr == "" {
		return nil, e.rejectRedeem(ctx, "", "", "empty_token")
	}

	claims, err := e.codec.Open(tokenStr, cfg.maxAge(), string(tokenType))
	if err != nil {
		return nil, e.rejectRedeem(ctx, "", "", "envelope_rejected")
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, e.rejectRedeem(ctx, claims.Email, claims.ID, "malformed_token_id")
	}

	rec, err := e.store.Get(ctx, tokenID, tokenType)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, e.rejectRedeem(ctx, claims.Email, claims.ID, "record_not_found")
		}
		e.metricInc(MetricRedeemFailure)
		e.emitAudit(ctx, auditEventRedeem, false, claims.Email, claims.ID, ErrStoreUnavailable, nil)
		return nil, ErrStoreUnavailable
	}

	now := e.timeNow()
	if rec.Used() {
		return nil, e.rejectRedeem(ctx, rec.Email, claims.ID, "already_used")
	}
	if rec.Expired(now) {
		return nil, e.rejectRedeem(ctx, rec.Email, claims.ID, "record_expired")
	}

	// The envelope carries its own copy of the expiry; a token is rejected
	// once either copy has passed.
	if !now.Before(claims.ExpiresAt.Time) {
		return nil, e.rejectRedeem(ctx, rec.Email, claims.ID, "envelope_expired")
	}

	claimed, err := e.store.MarkUsed(ctx, tokenID, now)
	if err != nil {
		e.metricInc(MetricRedeemFailure)
		e.emitAudit(ctx, auditEventRedeem, false, rec.Email, claims.ID, ErrStoreUnavailable, nil)
		return nil, ErrStoreUnavailable
	}
	if !claimed {
		// A concurrent redemption won the conditional update.
		return nil, e.rejectRedeem(ctx, rec.Email, claims.ID, "claim_lost")
	}

	e.metricInc(MetricRedeemSuccess)
	e.emitAudit(ctx, auditEventRedeem, true, rec.Email, claims.ID, nil, func() map[string]string {
		return map[string]string{
			"token_type": string(tokenType),
		}
	})

	return &Payload{
		Email:     rec.Email,
		TokenID:   tokenID,
		TokenType: tokenType,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (e *Engine) rejectRedeem(ctx context.Context, email, tokenID, reason string) error {
	e.metricInc(MetricRedeemFailure)
	e.emitAudit(ctx, auditEventRedeem, false, email, tokenID, ErrTokenInvalid, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
	return ErrTokenInvalid
}
