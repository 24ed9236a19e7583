package accountcore

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/halcyonweb/accountcore/claims"
	"github.com/halcyonweb/accountcore/session"
	"github.com/halcyonweb/accountcore/token"
)

// PasswordLogin describes the passwordlogin operation and its observable behavior.
//
// PasswordLogin may return an error when input validation, dependency calls, or security checks fail.
// PasswordLogin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) PasswordLogin(ctx context.Context, email, pass string, persistent bool) (PasswordLoginResult, error) {
	if e == nil || e.hasher == nil {
		return PasswordLoginResult{}, ErrEngineNotReady
	}
	if pass == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, email, nil, func() map[string]string {
			return map[string]string{
				"reason": "empty_password",
			}
		})
		return PasswordLoginFailed(), nil
	}

	account, err := e.accounts.GetAccountByCredentials(ctx, email, pass)
	if err != nil {
		return PasswordLoginResult{}, err
	}
	if account == nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, email, nil, func() map[string]string {
			return map[string]string{
				"reason": "credentials_mismatch",
			}
		})
		return PasswordLoginFailed(), nil
	}

	e.maybeUpgradeHash(ctx, account, pass)
	pass = ""

	if account.TwoFactorEnabled {
		if err := e.beginTwoFactor(ctx, account, persistent); err != nil {
			return PasswordLoginResult{}, err
		}
		e.metricInc(MetricTwoFactorRequired)
		e.emitAudit(ctx, auditEventTwoFactorRequired, true, account.AccountID, account.Email, nil, nil)
		return PasswordLoginTwoFactorRequired(account), nil
	}

	if err := e.signIn(ctx, account, persistent); err != nil {
		return PasswordLoginResult{}, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, account.AccountID, account.Email, nil, nil)
	return PasswordLoginSucceeded(account), nil
}

// TwoFactorLogin completes a pending two-factor sign-in with the code the
// account received by mail.
//
// TwoFactorLogin may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) TwoFactorLogin(ctx context.Context, code string) (TwoFactorLoginResult, error) {
	if e == nil || e.sessions == nil {
		return TwoFactorLoginResult{}, ErrEngineNotReady
	}

	ticket, err := e.sessions.Get(ctx, SchemeTwoFactor)
	if err != nil {
		return TwoFactorLoginResult{}, err
	}
	if ticket == nil || ticket.Assertion == nil {
		e.metricInc(MetricTwoFactorFailure)
		e.emitAudit(ctx, auditEventTwoFactorFailure, false, 0, "", nil, func() map[string]string {
			return map[string]string{
				"reason": "no_pending_session",
			}
		})
		return TwoFactorLoginNotLoggedIn(), nil
	}

	accountID, ok := claims.ExtractAccountID(ticket.Assertion, SchemeTwoFactor)
	if !ok {
		e.metricInc(MetricTwoFactorFailure)
		e.emitAudit(ctx, auditEventTwoFactorFailure, false, 0, "", nil, func() map[string]string {
			return map[string]string{
				"reason": "malformed_pending_session",
			}
		})
		return TwoFactorLoginNotLoggedIn(), nil
	}

	account, err := e.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return TwoFactorLoginResult{}, err
	}
	if account == nil {
		e.metricInc(MetricTwoFactorFailure)
		e.emitAudit(ctx, auditEventTwoFactorFailure, false, accountID, "", ErrAccountNotFound, nil)
		return TwoFactorLoginNotLoggedIn(), nil
	}

	totp, err := e.tokens.Lookup(token.KindTotp)
	if err != nil {
		return TwoFactorLoginResult{}, err
	}
	if totp.Validate(ctx, PurposeTwoFactorLogin, code, account.Identity()) != token.Valid {
		e.metricInc(MetricTwoFactorFailure)
		e.emitAudit(ctx, auditEventTwoFactorFailure, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"reason": "code_mismatch",
			}
		})
		return TwoFactorLoginInvalidCode(), nil
	}

	if err := e.sessions.Clear(ctx, SchemeTwoFactor); err != nil {
		return TwoFactorLoginResult{}, err
	}
	if err := e.signIn(ctx, account, ticket.Assertion.Persistent()); err != nil {
		return TwoFactorLoginResult{}, err
	}

	e.metricInc(MetricTwoFactorSuccess)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventTwoFactorSuccess, true, account.AccountID, account.Email, nil, nil)
	return TwoFactorLoginSucceeded(account), nil
}

// signIn issues a full application session for the account.
func (e *Engine) signIn(ctx context.Context, account *Account, persistent bool) error {
	assertion, err := e.BuildAssertion(ctx, account, SchemeApplication, persistent)
	if err != nil {
		return err
	}
	return e.sessions.Issue(ctx, SchemeApplication, &session.Ticket{
		Assertion: assertion,
		IssuedAt:  e.now().UTC(),
	})
}

// beginTwoFactor parks a minimal assertion on the two-factor scheme and
// mails the account a fresh code. The minimal assertion intentionally lacks
// username and stamp claims, so it can never satisfy application checks.
func (e *Engine) beginTwoFactor(ctx context.Context, account *Account, persistent bool) error {
	totp, err := e.tokens.Lookup(token.KindTotp)
	if err != nil {
		return err
	}
	code, err := totp.Generate(ctx, PurposeTwoFactorLogin, account.Identity())
	if err != nil {
		return err
	}

	pending := claims.NewBuilder(SchemeTwoFactor).
		Persistent(e.config.Session.TwoFactorPersistent && persistent).
		Add(claims.TypeAccountID, strconv.FormatInt(account.AccountID, 10)).
		Build()
	if err := e.sessions.Issue(ctx, SchemeTwoFactor, &session.Ticket{
		Assertion: pending,
		IssuedAt:  e.now().UTC(),
	}); err != nil {
		return err
	}

	return e.email.Send(ctx, Message{
		To:      account.Email,
		Subject: e.config.Mail.TwoFactorSubject,
		Body:    fmt.Sprintf("Your sign-in code is %s.", code),
	})
}

// maybeUpgradeHash transparently re-hashes the password when the stored
// blob was produced with weaker parameters, then reloads the account so the
// stamp the store rotated alongside the hash flows into the session about
// to be issued. Best-effort: a conflict or store fault never blocks the
// login that just succeeded.
func (e *Engine) maybeUpgradeHash(ctx context.Context, account *Account, pass string) {
	if !e.config.Password.UpgradeOnLogin || account.PasswordHash == "" {
		return
	}
	if !e.hasher.NeedsUpgrade(account.PasswordHash) {
		return
	}

	upgraded, err := e.hasher.Hash(pass)
	if err != nil {
		log.Print("accountcore: password hash upgrade generation failed")
		return
	}
	result, err := e.accounts.UpdatePasswordHash(ctx, account.AccountID, upgraded)
	if err != nil || result != UpdateApplied {
		log.Print("accountcore: password hash upgrade update failed")
		return
	}
	if fresh, err := e.accounts.GetAccountByID(ctx, account.AccountID); err == nil && fresh != nil {
		*account = *fresh
	}
	e.metricInc(MetricPasswordHashUpgraded)
}
