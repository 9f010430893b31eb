package internaldefs

import (
	"github.com/OhACD/magiclink"
)

// CounterDef binds one engine counter to its exported metric name.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   magiclink.MetricID
	Name string
	Help string
}

// CounterDefs lists every engine counter in export order.
var CounterDefs = []CounterDef{
	{ID: magiclink.MetricIssueLogin, Name: "magiclink_issue_login_total", Help: "Issued login tokens."},
	{ID: magiclink.MetricIssueVerify, Name: "magiclink_issue_verify_total", Help: "Issued verification tokens."},
	{ID: magiclink.MetricIssueFailure, Name: "magiclink_issue_failure_total", Help: "Failed issuance attempts."},
	{ID: magiclink.MetricRedeemSuccess, Name: "magiclink_redeem_success_total", Help: "Redeemed tokens."},
	{ID: magiclink.MetricRedeemFailure, Name: "magiclink_redeem_failure_total", Help: "Rejected redemption attempts."},
	{ID: magiclink.MetricRateLimitHit, Name: "magiclink_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
	{ID: magiclink.MetricMailSent, Name: "magiclink_mail_sent_total", Help: "Delivered magic-link emails."},
	{ID: magiclink.MetricMailFailure, Name: "magiclink_mail_failure_total", Help: "Failed magic-link deliveries."},
}
