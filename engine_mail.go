package magiclink

import (
	"context"
	"fmt"

	"github.com/OhACD/magiclink/mailer"
)

const (
	loginSubject  = "Your login link"
	loginBodyFmt  = "Click here to log in:\n\n%s"
	verifySubject = "Verify your account"
	verifyBodyFmt = "Click to verify your email:\n\n%s"
)

// SendLoginLink issues a login token for the email, appends it to baseURL,
// and delivers the link. It returns the full URL on success.
//
// Delivery is deliberately loud: a send failure propagates to the caller
// instead of being swallowed. The token record issued before the failure is
// not rolled back; an undelivered unused record simply expires.
func (e *Engine) SendLoginLink(ctx context.Context, email, baseURL string) (string, error) {
	return e.sendLink(ctx, email, baseURL, TokenLogin, loginSubject, loginBodyFmt)
}

// SendVerificationLink issues a verification token for the email, appends
// it to baseURL, and delivers the link. It returns the full URL on success.
func (e *Engine) SendVerificationLink(ctx context.Context, email, baseURL string) (string, error) {
	return e.sendLink(ctx, email, baseURL, TokenVerify, verifySubject, verifyBodyFmt)
}

func (e *Engine) sendLink(
	ctx context.Context,
	email, baseURL string,
	tokenType TokenType,
	subject, bodyFmt string,
) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if e.mailer == nil {
		return "", ErrMailerNotConfigured
	}

	sealed, err := e.Issue(ctx, email, tokenType)
	if err != nil {
		return "", err
	}

	link, err := mailer.BuildLink(baseURL, sealed)
	if err != nil {
		e.metricInc(MetricMailFailure)
		e.emitAudit(ctx, auditEventMailSend, false, normalizeEmail(email), "", err, func() map[string]string {
			return map[string]string{
				"reason": "bad_base_url",
			}
		})
		return "", err
	}

	if err := e.mailer.Send(ctx, normalizeEmail(email), subject, fmt.Sprintf(bodyFmt, link)); err != nil {
		e.metricInc(MetricMailFailure)
		e.emitAudit(ctx, auditEventMailSend, false, normalizeEmail(email), "", err, func() map[string]string {
			return map[string]string{
				"token_type": string(tokenType),
			}
		})
		return "", err
	}

	e.metricInc(MetricMailSent)
	e.emitAudit(ctx, auditEventMailSend, true, normalizeEmail(email), "", nil, func() map[string]string {
		return map[string]string{
			"token_type": string(tokenType),
		}
	})

	return link, nil
}
