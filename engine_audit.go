package accountcore

import (
	"context"
	"errors"

	"github.com/halcyonweb/accountcore/token"
)

const (
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventTwoFactorRequired      = "two_factor_required"
	auditEventTwoFactorSuccess       = "two_factor_success"
	auditEventTwoFactorFailure       = "two_factor_failure"
	auditEventTokenGenerated         = "token_generated"
	auditEventTokenValidated         = "token_validated"
	auditEventEmailConfirmRequest    = "email_confirm_request"
	auditEventEmailConfirmed         = "email_confirmed"
	auditEventEmailConfirmFailure    = "email_confirm_failure"
	auditEventPasswordResetRequest   = "password_reset_request"
	auditEventPasswordResetSuccess   = "password_reset_success"
	auditEventPasswordResetFailure   = "password_reset_failure"
	auditEventPasswordChangeSuccess  = "password_change_success"
	auditEventPasswordChangeFailure  = "password_change_failure"
	auditEventAccountCreated         = "account_created"
	auditEventAccountCreateConflict  = "account_create_conflict"
	auditEventProfileChangeSuccess   = "profile_change_success"
	auditEventProfileChangeConflict  = "profile_change_conflict"
	auditEventSessionRenewed         = "session_renewed"
	auditEventSessionRejected        = "session_rejected"
	auditEventLogout                 = "logout"
	auditEventTwoFactorToggleSuccess = "two_factor_toggle_success"
)

// AuditErrorCode defines a public type used by accountcore APIs.
type AuditErrorCode string

const (
	auditErrArgument        AuditErrorCode = "invalid_argument"
	auditErrInvalidAccount  AuditErrorCode = "invalid_account"
	auditErrAccountNotFound AuditErrorCode = "account_not_found"
	auditErrUpdateFailed    AuditErrorCode = "update_failed"
	auditErrUnknownKind     AuditErrorCode = "unknown_token_kind"
	auditErrNotReady        AuditErrorCode = "engine_not_ready"
	auditErrInternal        AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	accountID int64,
	email string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		AccountID: accountID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrArgument):
		return auditErrArgument
	case errors.Is(err, ErrInvalidAccount):
		return auditErrInvalidAccount
	case errors.Is(err, ErrAccountNotFound):
		return auditErrAccountNotFound
	case errors.Is(err, ErrUpdateFailed):
		return auditErrUpdateFailed
	case errors.Is(err, token.ErrUnknownKind):
		return auditErrUnknownKind
	case errors.Is(err, ErrEngineNotReady):
		return auditErrNotReady
	default:
		return auditErrInternal
	}
}
