// Package token implements the two purpose-bound token kinds used by the
// account-security core: an encrypted expiring data-protection token and a
// time-step TOTP code. Both bind to the account's security stamp, so a
// stamp rotation invalidates everything outstanding without a denylist.
package token

import (
	"context"
	"errors"
	"strconv"
)

// Result is the tri-state outcome of token validation. "Wrong" and "too
// old" require different caller behavior, so this is never collapsed into
// a boolean.
type Result int

const (
	// Invalid is an exported constant or variable used by the account-security core.
	Invalid Result = iota
	// Expired is an exported constant or variable used by the account-security core.
	Expired
	// Valid is an exported constant or variable used by the account-security core.
	Valid
)

// String describes the string operation and its observable behavior.
func (r Result) String() string {
	switch r {
	case Invalid:
		return "invalid"
	case Expired:
		return "expired"
	case Valid:
		return "valid"
	default:
		return "result(" + strconv.Itoa(int(r)) + ")"
	}
}

// Identity is the snapshot of account state a token binds to. Any account
// type can produce one; the token layer never sees the full record.
type Identity struct {
	AccountID     int64
	Email         string
	SecurityStamp string
}

// Service generates and validates purpose-bound tokens for one algorithm.
// Implementations are stateless and safe for concurrent use.
type Service interface {
	Generate(ctx context.Context, purpose string, id Identity) (string, error)
	Validate(ctx context.Context, purpose, tok string, id Identity) Result
}

// Kind names a token algorithm. The registry is built once at startup, so
// an unknown kind is a programmer error, not user input.
type Kind int

const (
	// KindDataProtection is an exported constant or variable used by the account-security core.
	KindDataProtection Kind = iota
	// KindTotp is an exported constant or variable used by the account-security core.
	KindTotp
)

// String describes the string operation and its observable behavior.
func (k Kind) String() string {
	switch k {
	case KindDataProtection:
		return "DataProtection"
	case KindTotp:
		return "Totp"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ErrUnknownKind is an exported constant or variable used by the account-security core.
var ErrUnknownKind = errors.New("unknown token kind")

// Registry maps token kinds to their implementations. It is populated by
// the wiring layer and treated as immutable afterwards.
type Registry map[Kind]Service

// Lookup resolves a kind, failing fast for kinds that were never wired.
func (r Registry) Lookup(kind Kind) (Service, error) {
	svc, ok := r[kind]
	if !ok || svc == nil {
		return nil, ErrUnknownKind
	}
	return svc, nil
}
