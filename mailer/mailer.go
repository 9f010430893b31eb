// Package mailer delivers magic-link emails. Delivery is a fallible,
// at-least-once side effect: a send failure never unwinds the token record
// that was issued for it.
package mailer

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Mailer sends a single plain-text message. Implementations must report
// delivery failures instead of swallowing them; callers decide what a
// failed send means for the surrounding flow.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// BuildLink appends the signed token to the base URL as the "token" query
// parameter, preserving any query parameters the base already carries.
func BuildLink(baseURL, token string) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		return "", errors.New("empty base url")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
