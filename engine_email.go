package accountcore

import (
	"context"
	"fmt"
	"net/url"

	"github.com/halcyonweb/accountcore/token"
)

// RequestEmailConfirmation generates a confirmation token for the signed-in
// account's primary address and mails it there.
//
// RequestEmailConfirmation may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) RequestEmailConfirmation(ctx context.Context) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	account, _, err := e.currentAccount(ctx)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNotAuthenticated
	}

	return e.sendConfirmation(ctx, account, PurposeConfirmEmail, account.Email)
}

// RequestAlternativeEmailConfirmation mails a confirmation token to the
// signed-in account's alternative address.
//
// RequestAlternativeEmailConfirmation may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) RequestAlternativeEmailConfirmation(ctx context.Context) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	account, _, err := e.currentAccount(ctx)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNotAuthenticated
	}
	if account.AlternativeEmail == "" {
		return ErrArgument
	}

	return e.sendConfirmation(ctx, account, PurposeConfirmAlternativeEmail, account.AlternativeEmail)
}

func (e *Engine) sendConfirmation(ctx context.Context, account *Account, purpose, to string) error {
	codec, err := e.tokens.Lookup(token.KindDataProtection)
	if err != nil {
		return err
	}
	tok, err := codec.Generate(ctx, purpose, account.Identity())
	if err != nil {
		return err
	}

	e.emitAudit(ctx, auditEventEmailConfirmRequest, true, account.AccountID, to, nil, nil)
	return e.email.Send(ctx, Message{
		To:      to,
		Subject: e.config.Mail.ConfirmationSubject,
		Body:    e.composeLink("Confirm your email address", tok),
	})
}

// ConfirmEmail validates a confirmation token against the signed-in account
// and marks the primary address verified. The store rotates the security
// stamp on that update, which retires the token; replaying it yields
// InvalidToken, never a second confirmation.
//
// ConfirmEmail may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ConfirmEmail(ctx context.Context, tok string) (ConfirmEmailResult, error) {
	return e.confirmAddress(ctx, tok, PurposeConfirmEmail, e.accounts.UpdateEmailVerified)
}

// ConfirmAlternativeEmail is [Engine.ConfirmEmail] for the alternative
// address.
//
// ConfirmAlternativeEmail may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ConfirmAlternativeEmail(ctx context.Context, tok string) (ConfirmEmailResult, error) {
	return e.confirmAddress(ctx, tok, PurposeConfirmAlternativeEmail, e.accounts.UpdateAlternativeEmailVerified)
}

func (e *Engine) confirmAddress(
	ctx context.Context,
	tok, purpose string,
	markVerified func(ctx context.Context, accountID int64, verified bool) (UpdateResult, error),
) (ConfirmEmailResult, error) {
	if e == nil || e.sessions == nil {
		return ConfirmEmailResult{}, ErrEngineNotReady
	}

	account, ticket, err := e.currentAccount(ctx)
	if err != nil {
		return ConfirmEmailResult{}, err
	}
	if account == nil {
		e.metricInc(MetricEmailConfirmFailure)
		e.emitAudit(ctx, auditEventEmailConfirmFailure, false, 0, "", nil, func() map[string]string {
			return map[string]string{
				"reason": "no_session",
			}
		})
		return ConfirmEmailNotLoggedIn(), nil
	}

	codec, err := e.tokens.Lookup(token.KindDataProtection)
	if err != nil {
		return ConfirmEmailResult{}, err
	}
	switch codec.Validate(ctx, purpose, tok, account.Identity()) {
	case token.Expired:
		e.metricInc(MetricEmailConfirmFailure)
		e.emitAudit(ctx, auditEventEmailConfirmFailure, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"reason": "token_expired",
			}
		})
		return ConfirmEmailExpiredToken(), nil
	case token.Valid:
	default:
		e.metricInc(MetricEmailConfirmFailure)
		e.emitAudit(ctx, auditEventEmailConfirmFailure, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"reason": "token_invalid",
			}
		})
		return ConfirmEmailInvalidToken(), nil
	}

	result, err := markVerified(ctx, account.AccountID, true)
	if err != nil {
		return ConfirmEmailResult{}, err
	}
	if result != UpdateApplied {
		// A concurrent stamp rotation retired the token between validation
		// and the write.
		e.metricInc(MetricEmailConfirmFailure)
		e.emitAudit(ctx, auditEventEmailConfirmFailure, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"reason": "update_conflict",
			}
		})
		return ConfirmEmailInvalidToken(), nil
	}

	if err := e.refreshSession(ctx, account.AccountID, ticket); err != nil {
		return ConfirmEmailResult{}, err
	}

	e.metricInc(MetricEmailConfirmed)
	e.emitAudit(ctx, auditEventEmailConfirmed, true, account.AccountID, account.Email, nil, nil)
	return ConfirmEmailSucceeded(), nil
}

func (e *Engine) composeLink(lead, tok string) string {
	if e.config.Mail.LinkBaseURL == "" {
		return fmt.Sprintf("%s using this code: %s", lead, tok)
	}
	return fmt.Sprintf("%s: %s?token=%s", lead, e.config.Mail.LinkBaseURL, url.QueryEscape(tok))
}
