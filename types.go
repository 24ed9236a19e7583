package accountcore

import (
	"context"

	"github.com/halcyonweb/accountcore/claims"
	"github.com/halcyonweb/accountcore/session"
	"github.com/halcyonweb/accountcore/token"
)

// Session schemes re-exported from the session package so integrators only
// import the root package.
const (
	// SchemeApplication is an exported constant or variable used by the account-security core.
	SchemeApplication = session.SchemeApplication
	// SchemeTwoFactor is an exported constant or variable used by the account-security core.
	SchemeTwoFactor = session.SchemeTwoFactor
)

// Token purposes issued by the Engine. A token generated for one purpose
// never validates for another.
const (
	// PurposeConfirmEmail is an exported constant or variable used by the account-security core.
	PurposeConfirmEmail = "ConfirmEmail"
	// PurposeConfirmAlternativeEmail is an exported constant or variable used by the account-security core.
	PurposeConfirmAlternativeEmail = "ConfirmAlternativeEmail"
	// PurposeResetPassword is an exported constant or variable used by the account-security core.
	PurposeResetPassword = "ResetPassword"
	// PurposeTwoFactorLogin is an exported constant or variable used by the account-security core.
	PurposeTwoFactorLogin = "TwoFactorLogin"
)

// Account is the full account record exchanged with [AccountStore]. It
// carries credential and profile state plus the security stamp that anchors
// every outstanding token and session.
type Account struct {
	AccountID                int64
	Email                    string
	AlternativeEmail         string
	DisplayName              string
	PasswordHash             string
	SecurityStamp            string
	EmailVerified            bool
	AlternativeEmailVerified bool
	TwoFactorEnabled         bool
}

// Identity returns the snapshot the token layer binds to.
func (a *Account) Identity() token.Identity {
	return token.Identity{
		AccountID:     a.AccountID,
		Email:         a.Email,
		SecurityStamp: a.SecurityStamp,
	}
}

// Role names a role an account holds.
type Role struct {
	RoleID int64
	Name   string
}

// UpdateResult is the typed outcome of a store mutation. Concurrency
// conflicts are an expected signal, not an error.
type UpdateResult uint8

const (
	// UpdateApplied is an exported constant or variable used by the account-security core.
	UpdateApplied UpdateResult = iota
	// UpdateConflict is an exported constant or variable used by the account-security core.
	UpdateConflict
)

// CreateAccountRequest is the input for [Engine.CreateAccount].
type CreateAccountRequest struct {
	Email       string
	DisplayName string
	Password    string
}

// AccountStore is the primary interface that callers must implement to
// integrate accountcore with their account database. Lookups return a nil
// account (and nil error) when nothing matches. GetAccountByEmail matches
// the primary or the alternative address. GetAccountByCredentials
// applies the configured password hasher inside the store so credential
// material never crosses the interface twice. Mutations return
// [UpdateConflict] when a concurrent writer won; security-sensitive
// mutations (email, password hash, two-factor, verified flags) must rotate
// the account's SecurityStamp as part of the same update.
//
//	Docs: docs/engine.md, docs/usage.md
type AccountStore interface {
	GetAccountByID(ctx context.Context, accountID int64) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByCredentials(ctx context.Context, email, password string) (*Account, error)

	GetAccountRoles(ctx context.Context, accountID int64) ([]Role, error)
	GetAccountClaims(ctx context.Context, accountID int64) ([]claims.Claim, error)
	GetRoleClaims(ctx context.Context, roleID int64) ([]claims.Claim, error)

	CreateAccount(ctx context.Context, account *Account) (UpdateResult, error)
	UpdateEmail(ctx context.Context, accountID int64, email string) (UpdateResult, error)
	UpdateAlternativeEmail(ctx context.Context, accountID int64, email string) (UpdateResult, error)
	UpdateDisplayName(ctx context.Context, accountID int64, displayName string) (UpdateResult, error)
	UpdatePasswordHash(ctx context.Context, accountID int64, passwordHash string) (UpdateResult, error)
	UpdateTwoFactorEnabled(ctx context.Context, accountID int64, enabled bool) (UpdateResult, error)
	UpdateEmailVerified(ctx context.Context, accountID int64, verified bool) (UpdateResult, error)
	UpdateAlternativeEmailVerified(ctx context.Context, accountID int64, verified bool) (UpdateResult, error)
}

// Message is one outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers security mail (confirmation links, reset links,
// two-factor codes). Implementations must not retry internally in a way
// that blocks the calling flow.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// SessionTransport carries identity assertions between requests, addressed
// by scheme. Get returns (nil, nil) when the request carries no live ticket
// for the scheme. [session.Transport] is the provided redis-backed
// implementation; stateless deployments can wrap [jwt.Codec] instead.
type SessionTransport interface {
	Get(ctx context.Context, scheme string) (*session.Ticket, error)
	Issue(ctx context.Context, scheme string, ticket *session.Ticket) error
	Clear(ctx context.Context, scheme string) error
}
