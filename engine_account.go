package accountcore

import (
	"context"

	"github.com/google/uuid"

	"github.com/halcyonweb/accountcore/claims"
	"github.com/halcyonweb/accountcore/session"
)

// CreateAccount stores a new account with a hashed password and a fresh
// security stamp. The address conflict is detected by the store, so two
// racing registrations resolve to exactly one account.
//
// CreateAccount may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) CreateAccount(ctx context.Context, req CreateAccountRequest) (CreateAccountResult, error) {
	if e == nil || e.hasher == nil {
		return CreateAccountResult{}, ErrEngineNotReady
	}
	if req.Email == "" || req.Password == "" {
		return CreateAccountResult{}, ErrArgument
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return CreateAccountResult{}, err
	}

	account := &Account{
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		PasswordHash:  hash,
		SecurityStamp: uuid.NewString(),
	}

	result, err := e.accounts.CreateAccount(ctx, account)
	if err != nil {
		return CreateAccountResult{}, err
	}
	if result != UpdateApplied {
		e.metricInc(MetricAccountCreateConflict)
		e.emitAudit(ctx, auditEventAccountCreateConflict, false, 0, req.Email, nil, nil)
		return CreateAccountEmailInUse(), nil
	}

	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, auditEventAccountCreated, true, account.AccountID, account.Email, nil, nil)
	return CreateAccountSucceeded(account), nil
}

// ChangeEmail replaces the signed-in account's primary address. The store
// clears the verified flag and rotates the security stamp as part of the
// update; the session is reissued immediately so the caller stays signed in.
//
// ChangeEmail may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ChangeEmail(ctx context.Context, newEmail string) (ChangeEmailResult, error) {
	if e == nil || e.sessions == nil {
		return ChangeEmailResult{}, ErrEngineNotReady
	}
	if newEmail == "" {
		return ChangeEmailResult{}, ErrArgument
	}

	account, ticket, err := e.currentAccount(ctx)
	if err != nil {
		return ChangeEmailResult{}, err
	}
	if account == nil {
		return ChangeEmailResult{}, ErrNotAuthenticated
	}

	result, err := e.accounts.UpdateEmail(ctx, account.AccountID, newEmail)
	if err != nil {
		return ChangeEmailResult{}, err
	}
	if result != UpdateApplied {
		e.metricInc(MetricProfileConflict)
		e.emitAudit(ctx, auditEventProfileChangeConflict, false, account.AccountID, newEmail, nil, func() map[string]string {
			return map[string]string{
				"field": "email",
			}
		})
		return ChangeEmailInUse(), nil
	}

	if err := e.refreshSession(ctx, account.AccountID, ticket); err != nil {
		return ChangeEmailResult{}, err
	}

	e.emitAudit(ctx, auditEventProfileChangeSuccess, true, account.AccountID, newEmail, nil, func() map[string]string {
		return map[string]string{
			"field": "email",
		}
	})
	return ChangeEmailSucceeded(), nil
}

// ChangeAlternativeEmail replaces the signed-in account's alternative
// address; the verified flag for it is cleared by the store.
//
// ChangeAlternativeEmail may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ChangeAlternativeEmail(ctx context.Context, newEmail string) (ChangeEmailResult, error) {
	if e == nil || e.sessions == nil {
		return ChangeEmailResult{}, ErrEngineNotReady
	}

	account, ticket, err := e.currentAccount(ctx)
	if err != nil {
		return ChangeEmailResult{}, err
	}
	if account == nil {
		return ChangeEmailResult{}, ErrNotAuthenticated
	}

	result, err := e.accounts.UpdateAlternativeEmail(ctx, account.AccountID, newEmail)
	if err != nil {
		return ChangeEmailResult{}, err
	}
	if result != UpdateApplied {
		e.metricInc(MetricProfileConflict)
		e.emitAudit(ctx, auditEventProfileChangeConflict, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"field": "alternative_email",
			}
		})
		return ChangeEmailInUse(), nil
	}

	if err := e.refreshSession(ctx, account.AccountID, ticket); err != nil {
		return ChangeEmailResult{}, err
	}

	e.emitAudit(ctx, auditEventProfileChangeSuccess, true, account.AccountID, account.Email, nil, func() map[string]string {
		return map[string]string{
			"field": "alternative_email",
		}
	})
	return ChangeEmailSucceeded(), nil
}

// ChangeDisplayName replaces the signed-in account's display name.
//
// ChangeDisplayName may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ChangeDisplayName(ctx context.Context, displayName string) (ChangeDisplayNameResult, error) {
	if e == nil || e.sessions == nil {
		return ChangeDisplayNameResult{}, ErrEngineNotReady
	}
	if displayName == "" {
		return ChangeDisplayNameResult{}, ErrArgument
	}

	account, ticket, err := e.currentAccount(ctx)
	if err != nil {
		return ChangeDisplayNameResult{}, err
	}
	if account == nil {
		return ChangeDisplayNameResult{}, ErrNotAuthenticated
	}

	result, err := e.accounts.UpdateDisplayName(ctx, account.AccountID, displayName)
	if err != nil {
		return ChangeDisplayNameResult{}, err
	}
	if result != UpdateApplied {
		e.metricInc(MetricProfileConflict)
		e.emitAudit(ctx, auditEventProfileChangeConflict, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"field": "display_name",
			}
		})
		return ChangeDisplayNameInUse(), nil
	}

	if err := e.refreshSession(ctx, account.AccountID, ticket); err != nil {
		return ChangeDisplayNameResult{}, err
	}

	e.emitAudit(ctx, auditEventProfileChangeSuccess, true, account.AccountID, account.Email, nil, func() map[string]string {
		return map[string]string{
			"field": "display_name",
		}
	})
	return ChangeDisplayNameSucceeded(), nil
}

// ChangePassword replaces the signed-in account's password after verifying
// the current one. Reusing the current password is rejected before any
// write happens.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ChangePassword(ctx context.Context, oldPassword, newPassword string) (ChangePasswordResult, error) {
	if e == nil || e.hasher == nil {
		return ChangePasswordResult{}, ErrEngineNotReady
	}
	if oldPassword == "" || newPassword == "" {
		return ChangePasswordResult{}, ErrArgument
	}

	account, ticket, err := e.currentAccount(ctx)
	if err != nil {
		return ChangePasswordResult{}, err
	}
	if account == nil {
		return ChangePasswordResult{}, ErrNotAuthenticated
	}

	if !e.hasher.Verify(account.PasswordHash, oldPassword) {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"reason": "invalid_old_password",
			}
		})
		return ChangePasswordInvalidPassword(), nil
	}
	if e.hasher.Verify(account.PasswordHash, newPassword) {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, account.AccountID, account.Email, nil, func() map[string]string {
			return map[string]string{
				"reason": "password_reuse",
			}
		})
		return ChangePasswordSamePassword(), nil
	}

	newHash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return ChangePasswordResult{}, err
	}
	result, err := e.accounts.UpdatePasswordHash(ctx, account.AccountID, newHash)
	if err != nil {
		return ChangePasswordResult{}, err
	}
	if result != UpdateApplied {
		return ChangePasswordResult{}, ErrUpdateFailed
	}

	if err := e.refreshSession(ctx, account.AccountID, ticket); err != nil {
		return ChangePasswordResult{}, err
	}

	oldPassword = ""
	newPassword = ""
	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, account.AccountID, account.Email, nil, nil)
	return ChangePasswordSucceeded(), nil
}

// SetTwoFactorEnabled toggles the second factor for the signed-in account.
// The store rotates the security stamp, so every other live session fails
// its next revalidation.
//
// SetTwoFactorEnabled may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) SetTwoFactorEnabled(ctx context.Context, enabled bool) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	account, ticket, err := e.currentAccount(ctx)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNotAuthenticated
	}

	result, err := e.accounts.UpdateTwoFactorEnabled(ctx, account.AccountID, enabled)
	if err != nil {
		return err
	}
	if result != UpdateApplied {
		return ErrUpdateFailed
	}

	if err := e.refreshSession(ctx, account.AccountID, ticket); err != nil {
		return err
	}

	e.emitAudit(ctx, auditEventTwoFactorToggleSuccess, true, account.AccountID, account.Email, nil, nil)
	return nil
}

// refreshSession reloads the account and reissues the application session
// with its assertion reconciled against the fresh username and security
// stamp, so the caller's own mutation never bounces their session at the
// next revalidation.
func (e *Engine) refreshSession(ctx context.Context, accountID int64, ticket *session.Ticket) error {
	fresh, err := e.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if fresh == nil {
		return ErrAccountNotFound
	}

	reconciled, err := claims.Reconcile(ticket.Assertion, fresh.AccountID, fresh.Email, fresh.SecurityStamp)
	if err != nil {
		return err
	}

	return e.sessions.Issue(ctx, SchemeApplication, &session.Ticket{
		Assertion: reconciled,
		IssuedAt:  e.now().UTC(),
	})
}
