package accountcore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/halcyonweb/accountcore/claims"
)

// BuildAssertion assembles the full claims picture for an account: the
// identity base (account id, username, security stamp), then one role claim
// per role, then each role's claims, then the account's own claims.
// Insertion order is preserved and nothing is deduplicated — authorization
// layers downstream decide what repeated claims mean.
func (e *Engine) BuildAssertion(ctx context.Context, account *Account, scheme string, persistent bool) (*claims.Assertion, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}
	if account == nil || scheme == "" {
		return nil, ErrArgument
	}
	if account.AccountID <= 0 || account.Email == "" || account.SecurityStamp == "" {
		return nil, ErrInvalidAccount
	}

	b := claims.NewBuilder(scheme).
		Persistent(persistent).
		Add(claims.TypeAccountID, strconv.FormatInt(account.AccountID, 10)).
		Add(claims.TypeUsername, account.Email).
		Add(claims.TypeSecurityStamp, account.SecurityStamp)

	roles, err := e.accounts.GetAccountRoles(ctx, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	for _, role := range roles {
		b.Add(claims.TypeRole, role.Name)
	}
	for _, role := range roles {
		roleClaims, err := e.accounts.GetRoleClaims(ctx, role.RoleID)
		if err != nil {
			return nil, fmt.Errorf("load role claims: %w", err)
		}
		for _, c := range roleClaims {
			b.Add(c.Type, c.Value)
		}
	}

	accountClaims, err := e.accounts.GetAccountClaims(ctx, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("load account claims: %w", err)
	}
	for _, c := range accountClaims {
		b.Add(c.Type, c.Value)
	}

	return b.Build(), nil
}
