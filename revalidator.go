package accountcore

import (
	"context"
	"time"

	"github.com/halcyonweb/accountcore/claims"
	"github.com/halcyonweb/accountcore/session"
)

// RevalidateSession re-checks an aging application session against the
// account store. Tickets younger than Stamp.ValidationInterval pass
// untouched. For older tickets the security stamp claim is compared with
// the account's current stamp: a match renews the ticket with a fresh
// issued-at and reconciled claims, anything else clears both schemes. The
// caller (typically session middleware) runs this on every request; the
// interval keeps the store off the hot path.
//
// RevalidateSession may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) RevalidateSession(ctx context.Context) (RevalidationStatus, error) {
	if e == nil || e.sessions == nil {
		return SessionAbsent, ErrEngineNotReady
	}
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricRevalidateLatency, time.Since(start)) }()
	}

	ticket, err := e.sessions.Get(ctx, SchemeApplication)
	if err != nil {
		return SessionAbsent, err
	}
	if ticket == nil || ticket.Assertion == nil {
		return SessionAbsent, nil
	}

	if e.now().Sub(ticket.IssuedAt) < e.config.Stamp.ValidationInterval {
		return SessionFresh, nil
	}

	accountID, ok := claims.ExtractAccountID(ticket.Assertion, SchemeApplication)
	if !ok {
		return e.rejectSession(ctx, 0, "malformed_assertion")
	}

	account, err := e.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return SessionAbsent, err
	}
	if account == nil {
		return e.rejectSession(ctx, accountID, "account_missing")
	}

	stamp, ok := ticket.Assertion.First(claims.TypeSecurityStamp)
	if !ok || stamp != account.SecurityStamp {
		return e.rejectSession(ctx, accountID, "stamp_mismatch")
	}

	reconciled, err := claims.Reconcile(ticket.Assertion, account.AccountID, account.Email, account.SecurityStamp)
	if err != nil {
		return e.rejectSession(ctx, accountID, "reconcile_failed")
	}

	if err := e.sessions.Issue(ctx, SchemeApplication, &session.Ticket{
		Assertion: reconciled,
		IssuedAt:  e.now().UTC(),
	}); err != nil {
		return SessionAbsent, err
	}

	e.metricInc(MetricSessionRenewed)
	e.emitAudit(ctx, auditEventSessionRenewed, true, account.AccountID, account.Email, nil, nil)
	return SessionRenewed, nil
}

// rejectSession clears both schemes so neither a full nor a pending
// session survives a stamp mismatch.
func (e *Engine) rejectSession(ctx context.Context, accountID int64, reason string) (RevalidationStatus, error) {
	if err := e.sessions.Clear(ctx, SchemeApplication); err != nil {
		return SessionRejected, err
	}
	if err := e.sessions.Clear(ctx, SchemeTwoFactor); err != nil {
		return SessionRejected, err
	}

	e.metricInc(MetricSessionRejected)
	e.emitAudit(ctx, auditEventSessionRejected, false, accountID, "", nil, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
	return SessionRejected, nil
}
