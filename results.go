package accountcore

// Per-flow outcome unions. Each result type is a closed set produced only by
// its factory functions; callers branch on the accessors and can never
// observe a state the flow did not construct. Expected negative outcomes
// (bad credentials, expired tokens, conflicts) are states here, not errors —
// errors are reserved for infrastructure faults.

type passwordLoginStatus uint8

const (
	passwordLoginFailed passwordLoginStatus = iota
	passwordLoginTwoFactorRequired
	passwordLoginSucceeded
)

// PasswordLoginResult is returned by [Engine.PasswordLogin].
type PasswordLoginResult struct {
	status  passwordLoginStatus
	account *Account
}

// PasswordLoginFailed describes the passwordloginfailed operation and its observable behavior.
func PasswordLoginFailed() PasswordLoginResult {
	return PasswordLoginResult{status: passwordLoginFailed}
}

// PasswordLoginTwoFactorRequired describes the passwordlogintwofactorrequired operation and its observable behavior.
func PasswordLoginTwoFactorRequired(account *Account) PasswordLoginResult {
	return PasswordLoginResult{status: passwordLoginTwoFactorRequired, account: account}
}

// PasswordLoginSucceeded describes the passwordloginsucceeded operation and its observable behavior.
func PasswordLoginSucceeded(account *Account) PasswordLoginResult {
	return PasswordLoginResult{status: passwordLoginSucceeded, account: account}
}

// Failed reports whether the credentials did not match any account.
func (r PasswordLoginResult) Failed() bool { return r.status == passwordLoginFailed }

// TwoFactorRequired reports whether a second factor must be presented
// before a full session is issued.
func (r PasswordLoginResult) TwoFactorRequired() bool {
	return r.status == passwordLoginTwoFactorRequired
}

// Succeeded reports whether a full application session was issued.
func (r PasswordLoginResult) Succeeded() bool { return r.status == passwordLoginSucceeded }

// Account returns the matched account, or nil when the login failed.
func (r PasswordLoginResult) Account() *Account { return r.account }

type twoFactorLoginStatus uint8

const (
	twoFactorLoginNotLoggedIn twoFactorLoginStatus = iota
	twoFactorLoginInvalidCode
	twoFactorLoginSucceeded
)

// TwoFactorLoginResult is returned by [Engine.TwoFactorLogin].
type TwoFactorLoginResult struct {
	status  twoFactorLoginStatus
	account *Account
}

// TwoFactorLoginNotLoggedIn describes the twofactorloginnotloggedin operation and its observable behavior.
func TwoFactorLoginNotLoggedIn() TwoFactorLoginResult {
	return TwoFactorLoginResult{status: twoFactorLoginNotLoggedIn}
}

// TwoFactorLoginInvalidCode describes the twofactorlogininvalidcode operation and its observable behavior.
func TwoFactorLoginInvalidCode() TwoFactorLoginResult {
	return TwoFactorLoginResult{status: twoFactorLoginInvalidCode}
}

// TwoFactorLoginSucceeded describes the twofactorloginsucceeded operation and its observable behavior.
func TwoFactorLoginSucceeded(account *Account) TwoFactorLoginResult {
	return TwoFactorLoginResult{status: twoFactorLoginSucceeded, account: account}
}

// NotLoggedIn reports whether no two-factor-pending session was present.
func (r TwoFactorLoginResult) NotLoggedIn() bool { return r.status == twoFactorLoginNotLoggedIn }

// InvalidCode reports whether the presented code did not verify.
func (r TwoFactorLoginResult) InvalidCode() bool { return r.status == twoFactorLoginInvalidCode }

// Succeeded reports whether a full application session was issued.
func (r TwoFactorLoginResult) Succeeded() bool { return r.status == twoFactorLoginSucceeded }

// Account returns the authenticated account, or nil.
func (r TwoFactorLoginResult) Account() *Account { return r.account }

type confirmEmailStatus uint8

const (
	confirmEmailNotLoggedIn confirmEmailStatus = iota
	confirmEmailInvalidToken
	confirmEmailExpiredToken
	confirmEmailSucceeded
)

// ConfirmEmailResult is returned by [Engine.ConfirmEmail].
type ConfirmEmailResult struct {
	status confirmEmailStatus
}

// ConfirmEmailNotLoggedIn describes the confirmemailnotloggedin operation and its observable behavior.
func ConfirmEmailNotLoggedIn() ConfirmEmailResult {
	return ConfirmEmailResult{status: confirmEmailNotLoggedIn}
}

// ConfirmEmailInvalidToken describes the confirmemailinvalidtoken operation and its observable behavior.
func ConfirmEmailInvalidToken() ConfirmEmailResult {
	return ConfirmEmailResult{status: confirmEmailInvalidToken}
}

// ConfirmEmailExpiredToken describes the confirmemailexpiredtoken operation and its observable behavior.
func ConfirmEmailExpiredToken() ConfirmEmailResult {
	return ConfirmEmailResult{status: confirmEmailExpiredToken}
}

// ConfirmEmailSucceeded describes the confirmemailsucceeded operation and its observable behavior.
func ConfirmEmailSucceeded() ConfirmEmailResult {
	return ConfirmEmailResult{status: confirmEmailSucceeded}
}

// NotLoggedIn reports whether no authenticated session was present.
func (r ConfirmEmailResult) NotLoggedIn() bool { return r.status == confirmEmailNotLoggedIn }

// InvalidToken reports whether the token failed identity or integrity checks.
func (r ConfirmEmailResult) InvalidToken() bool { return r.status == confirmEmailInvalidToken }

// ExpiredToken reports whether the token was well-formed but past its lifespan.
func (r ConfirmEmailResult) ExpiredToken() bool { return r.status == confirmEmailExpiredToken }

// Succeeded reports whether the address was marked verified.
func (r ConfirmEmailResult) Succeeded() bool { return r.status == confirmEmailSucceeded }

type resetPasswordStatus uint8

const (
	resetPasswordInvalidEmail resetPasswordStatus = iota
	resetPasswordInvalidToken
	resetPasswordExpiredToken
	resetPasswordSucceeded
)

// ResetPasswordResult is returned by [Engine.ResetPassword].
type ResetPasswordResult struct {
	status resetPasswordStatus
}

// ResetPasswordInvalidEmail describes the resetpasswordinvalidemail operation and its observable behavior.
func ResetPasswordInvalidEmail() ResetPasswordResult {
	return ResetPasswordResult{status: resetPasswordInvalidEmail}
}

// ResetPasswordInvalidToken describes the resetpasswordinvalidtoken operation and its observable behavior.
func ResetPasswordInvalidToken() ResetPasswordResult {
	return ResetPasswordResult{status: resetPasswordInvalidToken}
}

// ResetPasswordExpiredToken describes the resetpasswordexpiredtoken operation and its observable behavior.
func ResetPasswordExpiredToken() ResetPasswordResult {
	return ResetPasswordResult{status: resetPasswordExpiredToken}
}

// ResetPasswordSucceeded describes the resetpasswordsucceeded operation and its observable behavior.
func ResetPasswordSucceeded() ResetPasswordResult {
	return ResetPasswordResult{status: resetPasswordSucceeded}
}

// InvalidEmail reports whether no account matched the address.
func (r ResetPasswordResult) InvalidEmail() bool { return r.status == resetPasswordInvalidEmail }

// InvalidToken reports whether the token failed identity or integrity checks.
func (r ResetPasswordResult) InvalidToken() bool { return r.status == resetPasswordInvalidToken }

// ExpiredToken reports whether the token was well-formed but past its lifespan.
func (r ResetPasswordResult) ExpiredToken() bool { return r.status == resetPasswordExpiredToken }

// Succeeded reports whether the password was replaced.
func (r ResetPasswordResult) Succeeded() bool { return r.status == resetPasswordSucceeded }

type changeEmailStatus uint8

const (
	changeEmailSucceeded changeEmailStatus = iota
	changeEmailInUse
)

// ChangeEmailResult is returned by [Engine.ChangeEmail] and
// [Engine.ChangeAlternativeEmail].
type ChangeEmailResult struct {
	status changeEmailStatus
}

// ChangeEmailSucceeded describes the changeemailsucceeded operation and its observable behavior.
func ChangeEmailSucceeded() ChangeEmailResult {
	return ChangeEmailResult{status: changeEmailSucceeded}
}

// ChangeEmailInUse describes the changeemailinuse operation and its observable behavior.
func ChangeEmailInUse() ChangeEmailResult {
	return ChangeEmailResult{status: changeEmailInUse}
}

// Succeeded reports whether the address was updated.
func (r ChangeEmailResult) Succeeded() bool { return r.status == changeEmailSucceeded }

// InUse reports whether a concurrent writer already claimed the address.
func (r ChangeEmailResult) InUse() bool { return r.status == changeEmailInUse }

type changeDisplayNameStatus uint8

const (
	changeDisplayNameSucceeded changeDisplayNameStatus = iota
	changeDisplayNameInUse
)

// ChangeDisplayNameResult is returned by [Engine.ChangeDisplayName].
type ChangeDisplayNameResult struct {
	status changeDisplayNameStatus
}

// ChangeDisplayNameSucceeded describes the changedisplaynamesucceeded operation and its observable behavior.
func ChangeDisplayNameSucceeded() ChangeDisplayNameResult {
	return ChangeDisplayNameResult{status: changeDisplayNameSucceeded}
}

// ChangeDisplayNameInUse describes the changedisplaynameinuse operation and its observable behavior.
func ChangeDisplayNameInUse() ChangeDisplayNameResult {
	return ChangeDisplayNameResult{status: changeDisplayNameInUse}
}

// Succeeded reports whether the display name was updated.
func (r ChangeDisplayNameResult) Succeeded() bool { return r.status == changeDisplayNameSucceeded }

// InUse reports whether a concurrent writer already claimed the name.
func (r ChangeDisplayNameResult) InUse() bool { return r.status == changeDisplayNameInUse }

type changePasswordStatus uint8

const (
	changePasswordSucceeded changePasswordStatus = iota
	changePasswordInvalidPassword
	changePasswordSamePassword
)

// ChangePasswordResult is returned by [Engine.ChangePassword].
type ChangePasswordResult struct {
	status changePasswordStatus
}

// ChangePasswordSucceeded describes the changepasswordsucceeded operation and its observable behavior.
func ChangePasswordSucceeded() ChangePasswordResult {
	return ChangePasswordResult{status: changePasswordSucceeded}
}

// ChangePasswordInvalidPassword describes the changepasswordinvalidpassword operation and its observable behavior.
func ChangePasswordInvalidPassword() ChangePasswordResult {
	return ChangePasswordResult{status: changePasswordInvalidPassword}
}

// ChangePasswordSamePassword describes the changepasswordsamepassword operation and its observable behavior.
func ChangePasswordSamePassword() ChangePasswordResult {
	return ChangePasswordResult{status: changePasswordSamePassword}
}

// Succeeded reports whether the password was replaced.
func (r ChangePasswordResult) Succeeded() bool { return r.status == changePasswordSucceeded }

// InvalidPassword reports whether the current password did not verify.
func (r ChangePasswordResult) InvalidPassword() bool {
	return r.status == changePasswordInvalidPassword
}

// SamePassword reports whether the new password equals the current one.
func (r ChangePasswordResult) SamePassword() bool { return r.status == changePasswordSamePassword }

type createAccountStatus uint8

const (
	createAccountSucceeded createAccountStatus = iota
	createAccountEmailInUse
)

// CreateAccountResult is returned by [Engine.CreateAccount].
type CreateAccountResult struct {
	status  createAccountStatus
	account *Account
}

// CreateAccountSucceeded describes the createaccountsucceeded operation and its observable behavior.
func CreateAccountSucceeded(account *Account) CreateAccountResult {
	return CreateAccountResult{status: createAccountSucceeded, account: account}
}

// CreateAccountEmailInUse describes the createaccountemailinuse operation and its observable behavior.
func CreateAccountEmailInUse() CreateAccountResult {
	return CreateAccountResult{status: createAccountEmailInUse}
}

// Succeeded reports whether the account was stored.
func (r CreateAccountResult) Succeeded() bool { return r.status == createAccountSucceeded }

// EmailInUse reports whether the address already belongs to an account.
func (r CreateAccountResult) EmailInUse() bool { return r.status == createAccountEmailInUse }

// Account returns the stored account, or nil on conflict.
func (r CreateAccountResult) Account() *Account { return r.account }

// RevalidationStatus is returned by [Engine.RevalidateSession].
type RevalidationStatus uint8

const (
	// SessionAbsent is an exported constant or variable used by the account-security core.
	SessionAbsent RevalidationStatus = iota
	// SessionFresh is an exported constant or variable used by the account-security core.
	SessionFresh
	// SessionRenewed is an exported constant or variable used by the account-security core.
	SessionRenewed
	// SessionRejected is an exported constant or variable used by the account-security core.
	SessionRejected
)

// String describes the string operation and its observable behavior.
func (s RevalidationStatus) String() string {
	switch s {
	case SessionAbsent:
		return "absent"
	case SessionFresh:
		return "fresh"
	case SessionRenewed:
		return "renewed"
	case SessionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
