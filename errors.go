package accountcore

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the account-security core.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrArgument is an exported constant or variable used by the account-security core.
	ErrArgument = errors.New("invalid argument")
	// ErrInvalidAccount is an exported constant or variable used by the account-security core.
	ErrInvalidAccount = errors.New("account is missing identity fields")
	// ErrAccountNotFound is an exported constant or variable used by the account-security core.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUpdateFailed is an exported constant or variable used by the account-security core.
	ErrUpdateFailed = errors.New("account update failed")
	// ErrNotAuthenticated is an exported constant or variable used by the account-security core.
	ErrNotAuthenticated = errors.New("no authenticated session")
)
