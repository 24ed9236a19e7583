package internaldefs

import (
	accountcore "github.com/halcyonweb/accountcore"
)

// CounterDef defines a public type used by accountcore APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   accountcore.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by accountcore APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   accountcore.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the account-security core.
var CounterDefs = []CounterDef{
	{ID: accountcore.MetricLoginSuccess, Name: "accountcore_login_success_total", Help: "Successful password logins."},
	{ID: accountcore.MetricLoginFailure, Name: "accountcore_login_failure_total", Help: "Failed password logins."},
	{ID: accountcore.MetricTwoFactorRequired, Name: "accountcore_two_factor_required_total", Help: "Logins deferred to the second factor."},
	{ID: accountcore.MetricTwoFactorSuccess, Name: "accountcore_two_factor_success_total", Help: "Successful two-factor confirmations."},
	{ID: accountcore.MetricTwoFactorFailure, Name: "accountcore_two_factor_failure_total", Help: "Failed two-factor confirmations."},
	{ID: accountcore.MetricTokenGenerated, Name: "accountcore_token_generated_total", Help: "Purpose-bound tokens generated."},
	{ID: accountcore.MetricTokenValid, Name: "accountcore_token_valid_total", Help: "Token validations that returned valid."},
	{ID: accountcore.MetricTokenInvalid, Name: "accountcore_token_invalid_total", Help: "Token validations that returned invalid."},
	{ID: accountcore.MetricTokenExpired, Name: "accountcore_token_expired_total", Help: "Token validations that returned expired."},
	{ID: accountcore.MetricEmailConfirmed, Name: "accountcore_email_confirmed_total", Help: "Successful email confirmations."},
	{ID: accountcore.MetricEmailConfirmFailure, Name: "accountcore_email_confirm_failure_total", Help: "Failed email confirmations."},
	{ID: accountcore.MetricPasswordResetRequest, Name: "accountcore_password_reset_request_total", Help: "Password reset requests."},
	{ID: accountcore.MetricPasswordResetSuccess, Name: "accountcore_password_reset_success_total", Help: "Successful password resets."},
	{ID: accountcore.MetricPasswordResetFailure, Name: "accountcore_password_reset_failure_total", Help: "Failed password resets."},
	{ID: accountcore.MetricPasswordChangeSuccess, Name: "accountcore_password_change_success_total", Help: "Successful password changes."},
	{ID: accountcore.MetricPasswordChangeFailure, Name: "accountcore_password_change_failure_total", Help: "Failed password changes."},
	{ID: accountcore.MetricPasswordHashUpgraded, Name: "accountcore_password_hash_upgraded_total", Help: "Password hashes upgraded transparently at login."},
	{ID: accountcore.MetricAccountCreated, Name: "accountcore_account_created_total", Help: "Created accounts."},
	{ID: accountcore.MetricAccountCreateConflict, Name: "accountcore_account_create_conflict_total", Help: "Account creations rejected for an address conflict."},
	{ID: accountcore.MetricProfileConflict, Name: "accountcore_profile_conflict_total", Help: "Profile mutations rejected for a conflict."},
	{ID: accountcore.MetricSessionRenewed, Name: "accountcore_session_renewed_total", Help: "Sessions renewed during revalidation."},
	{ID: accountcore.MetricSessionRejected, Name: "accountcore_session_rejected_total", Help: "Sessions rejected during revalidation."},
	{ID: accountcore.MetricLogout, Name: "accountcore_logout_total", Help: "Logout operations."},
}

// HistogramDefs is an exported constant or variable used by the account-security core.
var HistogramDefs = []HistogramDef{
	{ID: accountcore.MetricRevalidateLatency, Name: "accountcore_revalidate_latency_seconds", Help: "Session revalidation latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the account-security core.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the account-security core.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
