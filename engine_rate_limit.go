package magiclink

import "context"

// CheckRateLimit consumes one unit of the (action, identifier) quota.
// It returns nil when the request may proceed, [ErrRateLimited] when the
// window quota is exhausted, and [ErrStoreUnavailable] when the counter
// backend cannot answer. An unreachable backend never reads as "allowed".
//
// The identifier is normalized (trimmed, lower-cased) before keying so case
// variants of one email share a counter. Counters are fixed-window: a
// saturated counter is not incremented further and its window expires on
// schedule. A burst of up to twice the limit can span a window boundary;
// that is an accepted property of the design.
func (e *Engine) CheckRateLimit(ctx context.Context, action, identifier string) error {
	if e == nil || e.limiter == nil {
		return ErrEngineNotReady
	}

	quota, ok := e.config.RateLimit.Actions[action]
	if !ok {
		return ErrUnknownAction
	}

	identifier = normalizeEmail(identifier)

	limited, err := e.limiter.Limited(ctx, action, identifier, quota.Limit, quota.Window)
	if err != nil {
		e.emitAudit(ctx, auditEventRateLimit, false, identifier, "", ErrStoreUnavailable, func() map[string]string {
			return map[string]string{
				"action": action,
			}
		})
		return ErrStoreUnavailable
	}
	if limited {
		e.metricInc(MetricRateLimitHit)
		e.emitAudit(ctx, auditEventRateLimit, false, identifier, "", ErrRateLimited, func() map[string]string {
			return map[string]string{
				"action": action,
			}
		})
		return ErrRateLimited
	}

	return nil
}
