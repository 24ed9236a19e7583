package accountcore

import (
	"context"

	"github.com/halcyonweb/accountcore/token"
)

// GenerateToken produces a purpose-bound token of the given kind for an
// account. Unknown kinds and malformed arguments fail fast with an error;
// they are programmer mistakes, not user outcomes.
//
// GenerateToken may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) GenerateToken(ctx context.Context, kind token.Kind, purpose string, accountID int64) (string, error) {
	if e == nil || e.accounts == nil {
		return "", ErrEngineNotReady
	}
	if purpose == "" || accountID <= 0 {
		return "", ErrArgument
	}

	svc, err := e.tokens.Lookup(kind)
	if err != nil {
		return "", err
	}

	account, err := e.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", ErrAccountNotFound
	}

	tok, err := svc.Generate(ctx, purpose, account.Identity())
	if err != nil {
		return "", err
	}

	e.metricInc(MetricTokenGenerated)
	e.emitAudit(ctx, auditEventTokenGenerated, true, accountID, account.Email, nil, func() map[string]string {
		return map[string]string{
			"kind":    kind.String(),
			"purpose": purpose,
		}
	})
	return tok, nil
}

// ValidateToken checks a token of the given kind against an account's
// current state. The tri-state result is the outcome; the error return is
// reserved for unknown kinds, bad arguments, and store faults.
//
// ValidateToken may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) ValidateToken(ctx context.Context, kind token.Kind, purpose, tok string, accountID int64) (token.Result, error) {
	if e == nil || e.accounts == nil {
		return token.Invalid, ErrEngineNotReady
	}
	if purpose == "" || tok == "" || accountID <= 0 {
		return token.Invalid, ErrArgument
	}

	svc, err := e.tokens.Lookup(kind)
	if err != nil {
		return token.Invalid, err
	}

	account, err := e.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return token.Invalid, err
	}
	if account == nil {
		return token.Invalid, ErrAccountNotFound
	}

	result := svc.Validate(ctx, purpose, tok, account.Identity())
	switch result {
	case token.Valid:
		e.metricInc(MetricTokenValid)
	case token.Expired:
		e.metricInc(MetricTokenExpired)
	default:
		e.metricInc(MetricTokenInvalid)
	}
	e.emitAudit(ctx, auditEventTokenValidated, result == token.Valid, accountID, account.Email, nil, func() map[string]string {
		return map[string]string{
			"kind":    kind.String(),
			"purpose": purpose,
			"result":  result.String(),
		}
	})
	return result, nil
}
