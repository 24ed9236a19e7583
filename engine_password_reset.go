package accountcore

import (
	"context"

	"github.com/halcyonweb/accountcore/token"
)

// RequestPasswordReset mails a reset token to the account holding the
// address. An unknown address is deliberately indistinguishable from a
// known one: the call succeeds either way and only the audit trail records
// the difference.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil || e.accounts == nil {
		return ErrEngineNotReady
	}
	if email == "" {
		return ErrArgument
	}

	account, err := e.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, 0, email, nil, func() map[string]string {
			return map[string]string{
				"reason": "unknown_email",
			}
		})
		return nil
	}

	codec, err := e.tokens.Lookup(token.KindDataProtection)
	if err != nil {
		return err
	}
	tok, err := codec.Generate(ctx, PurposeResetPassword, account.Identity())
	if err != nil {
		return err
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, account.AccountID, email, nil, nil)
	return e.email.Send(ctx, Message{
		To:      email,
		Subject: e.config.Mail.ResetSubject,
		Body:    e.composeLink("Reset your password", tok),
	})
}

// ResetPassword replaces the password of the account holding the address,
// gated on a valid reset token. The store rotates the security stamp with
// the hash, so the token is single-use and every outstanding session fails
// its next revalidation.
//
// ResetPassword may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ResetPassword(ctx context.Context, email, tok, newPassword string) (ResetPasswordResult, error) {
	if e == nil || e.hasher == nil {
		return ResetPasswordResult{}, ErrEngineNotReady
	}
	if email == "" || newPassword == "" {
		return ResetPasswordResult{}, ErrArgument
	}

	account, err := e.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return ResetPasswordResult{}, err
	}
	if account == nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetFailure, false, 0, email, nil, func() map[string]string {
			return map[string]string{
				"reason": "unknown_email",
			}
		})
		return ResetPasswordInvalidEmail(), nil
	}

	codec, err := e.tokens.Lookup(token.KindDataProtection)
	if err != nil {
		return ResetPasswordResult{}, err
	}
	switch codec.Validate(ctx, PurposeResetPassword, tok, account.Identity()) {
	case token.Expired:
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetFailure, false, account.AccountID, email, nil, func() map[string]string {
			return map[string]string{
				"reason": "token_expired",
			}
		})
		return ResetPasswordExpiredToken(), nil
	case token.Valid:
	default:
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetFailure, false, account.AccountID, email, nil, func() map[string]string {
			return map[string]string{
				"reason": "token_invalid",
			}
		})
		return ResetPasswordInvalidToken(), nil
	}

	newHash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return ResetPasswordResult{}, err
	}

	result, err := e.accounts.UpdatePasswordHash(ctx, account.AccountID, newHash)
	if err != nil {
		return ResetPasswordResult{}, err
	}
	if result != UpdateApplied {
		// A concurrent stamp rotation retired the token mid-flow.
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetFailure, false, account.AccountID, email, nil, func() map[string]string {
			return map[string]string{
				"reason": "update_conflict",
			}
		})
		return ResetPasswordInvalidToken(), nil
	}

	e.metricInc(MetricPasswordResetSuccess)
	e.emitAudit(ctx, auditEventPasswordResetSuccess, true, account.AccountID, email, nil, nil)
	return ResetPasswordSucceeded(), nil
}
