package internaldefs

import (
	"github.com/naazbookdepot/shopauth"
)

// Member is one labelled series of a Family.
type Member struct {
	ID    shopauth.MetricID
	Value string
}

// Family groups engine counters that share a metric name and differ by one
// label.
type Family struct {
	Name    string
	Help    string
	Label   string
	Members []Member
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID   shopauth.MetricID
	Name string
	Help string
}

// Audit dispatcher totals are read from the engine directly, not from the
// snapshot.
const (
	AuditEventsName  = "shopauth_audit_events_total"
	AuditEventsHelp  = "Audit events by dispatcher result."
	AuditEventsLabel = "result"
	AuditDelivered   = "delivered"
	AuditDropped     = "dropped"
)

// Families lists every exported counter family in a stable order.
var Families = []Family{
	{
		Name:  "shopauth_login_total",
		Help:  "Login attempts by outcome.",
		Label: "outcome",
		Members: []Member{
			{shopauth.MetricLoginSuccess, "success"},
			{shopauth.MetricLoginFailure, "failure"},
			{shopauth.MetricLoginRateLimited, "rate_limited"},
		},
	},
	{
		Name:  "shopauth_register_total",
		Help:  "Registrations by outcome.",
		Label: "outcome",
		Members: []Member{
			{shopauth.MetricRegisterSuccess, "success"},
			{shopauth.MetricRegisterDuplicate, "duplicate"},
			{shopauth.MetricRegisterRateLimited, "rate_limited"},
		},
	},
	{
		Name:  "shopauth_guard_rejections_total",
		Help:  "Requests stopped or degraded by a request guard.",
		Label: "scope",
		Members: []Member{
			{shopauth.MetricRateLimitHit, "rate_limit"},
			{shopauth.MetricRateLimitStoreError, "rate_limit_store_error"},
			{shopauth.MetricCSRFRejected, "csrf"},
		},
	},
	{
		Name:  "shopauth_session_events_total",
		Help:  "Session token lifecycle events.",
		Label: "event",
		Members: []Member{
			{shopauth.MetricSessionIssued, "issued"},
			{shopauth.MetricSessionReissued, "reissued"},
			{shopauth.MetricSessionExpired, "expired"},
			{shopauth.MetricSessionInvalid, "invalid"},
			{shopauth.MetricFingerprintMismatch, "fingerprint_mismatch"},
			{shopauth.MetricLogout, "logout"},
		},
	},
	{
		Name:  "shopauth_mfa_events_total",
		Help:  "TOTP enrollment and verification events.",
		Label: "event",
		Members: []Member{
			{shopauth.MetricMFAEnrollmentStarted, "enrollment_started"},
			{shopauth.MetricMFAEnabled, "enabled"},
			{shopauth.MetricMFAFailure, "failure"},
			{shopauth.MetricMFADisabled, "disabled"},
		},
	},
	{
		Name:  "shopauth_account_events_total",
		Help:  "Account maintenance events.",
		Label: "event",
		Members: []Member{
			{shopauth.MetricProfileUpdated, "profile_updated"},
			{shopauth.MetricPasswordChangeInvalidOld, "password_change_rejected"},
			{shopauth.MetricPasswordRehashed, "password_rehashed"},
			{shopauth.MetricAccountDeleted, "deleted"},
		},
	},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: shopauth.MetricAuthorizeLatency, Name: "shopauth_authorize_latency_seconds", Help: "Credential check latency."},
}

// HistogramBounds are the upper bounds (seconds) of the engine's buckets,
// formatted for the le label.
var HistogramBounds = [8]string{"0.005", "0.01", "0.025", "0.05", "0.1", "0.25", "0.5", "+Inf"}

// CumulativeBuckets pads raw to the engine's bucket count and turns
// per-bucket counts into running totals.
func CumulativeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := range out {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
