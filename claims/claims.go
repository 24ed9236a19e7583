package claims

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Claim types carried in an identity assertion. Downstream authorization
// checks key on these, so the strings are part of the wire contract.
const (
	TypeAccountID     = "AccountId"
	TypeUsername      = "Username"
	TypeSecurityStamp = "SecurityStamp"
	TypeRole          = "Role"
)

var (
	// ErrMissingClaims is an exported constant or variable used by the account-security core.
	ErrMissingClaims = errors.New("assertion missing required claims")
	// ErrAccountMismatch is an exported constant or variable used by the account-security core.
	ErrAccountMismatch = errors.New("assertion belongs to a different account")
)

// Claim is a single (type, value) pair attached to an assertion.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Assertion is an immutable, ordered claims set representing "who is asking".
// Instances are only produced by Builder, NewAssertion, Minimal, or
// Reconcile; partially built assertions never escape.
type Assertion struct {
	scheme     string
	authType   string
	persistent bool
	claims     []Claim
}

// NewAssertion constructs an assertion from already-collected claims. The
// claim slice is copied; insertion order is preserved and duplicates are
// kept as-is.
func NewAssertion(scheme, authType string, persistent bool, cs []Claim) *Assertion {
	out := make([]Claim, len(cs))
	copy(out, cs)
	return &Assertion{
		scheme:     scheme,
		authType:   authType,
		persistent: persistent,
		claims:     out,
	}
}

// Scheme returns the session scheme the assertion was issued under.
func (a *Assertion) Scheme() string {
	return a.scheme
}

// AuthenticationType reports how the assertion was authenticated. It equals
// the scheme for assertions built by this package.
func (a *Assertion) AuthenticationType() string {
	return a.authType
}

// Persistent reports whether the session transport should outlive the
// browser session when carrying this assertion.
func (a *Assertion) Persistent() bool {
	return a.persistent
}

// Claims returns a copy of the claim list in insertion order.
func (a *Assertion) Claims() []Claim {
	out := make([]Claim, len(a.claims))
	copy(out, a.claims)
	return out
}

// Len returns the number of claims.
func (a *Assertion) Len() int {
	return len(a.claims)
}

// First returns the value of the first claim of the given type.
func (a *Assertion) First(claimType string) (string, bool) {
	for _, c := range a.claims {
		if c.Type == claimType {
			return c.Value, true
		}
	}
	return "", false
}

type assertionJSON struct {
	Scheme     string  `json:"scheme"`
	AuthType   string  `json:"authentication_type"`
	Persistent bool    `json:"persistent,omitempty"`
	Claims     []Claim `json:"claims"`
}

// MarshalJSON implements json.Marshaler so transports can serialize
// assertions without reaching into unexported state.
func (a *Assertion) MarshalJSON() ([]byte, error) {
	return json.Marshal(assertionJSON{
		Scheme:     a.scheme,
		AuthType:   a.authType,
		Persistent: a.persistent,
		Claims:     a.claims,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Assertion) UnmarshalJSON(data []byte) error {
	var raw assertionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.scheme = raw.Scheme
	a.authType = raw.AuthType
	a.persistent = raw.Persistent
	a.claims = raw.Claims
	return nil
}

// Builder accumulates claims into an Assertion. The zero value is not
// usable; construct with NewBuilder.
type Builder struct {
	scheme     string
	persistent bool
	claims     []Claim
}

// NewBuilder starts an assertion for the given scheme. The authentication
// type of the built assertion equals the scheme.
func NewBuilder(scheme string) *Builder {
	return &Builder{scheme: scheme}
}

// Add appends a claim. Duplicate (type, value) pairs are permitted.
func (b *Builder) Add(claimType, value string) *Builder {
	b.claims = append(b.claims, Claim{Type: claimType, Value: value})
	return b
}

// Persistent marks the assertion for a persistent session transport.
func (b *Builder) Persistent(persistent bool) *Builder {
	b.persistent = persistent
	return b
}

// Build finalizes the assertion. The builder can be discarded afterwards.
func (b *Builder) Build() *Assertion {
	return NewAssertion(b.scheme, b.scheme, b.persistent, b.claims)
}

// Minimal returns a one-claim assertion carrying only the account id. It is
// issued for the two-factor-pending pseudo-session and deliberately omits
// the username and security stamp so it can never satisfy authorization
// checks keyed on those claim types.
func Minimal(accountID int64, scheme string) *Assertion {
	return NewBuilder(scheme).
		Add(TypeAccountID, strconv.FormatInt(accountID, 10)).
		Build()
}

// ExtractAccountID pulls the account id out of an assertion. It returns
// false unless the assertion's authentication type equals scheme and an
// account id claim with a parseable value is present.
func ExtractAccountID(a *Assertion, scheme string) (int64, bool) {
	if a == nil || a.authType != scheme {
		return 0, false
	}
	raw, ok := a.First(TypeAccountID)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Reconcile returns a copy of the assertion with its username and security
// stamp claims brought in line with the account's current values. It fails
// with ErrMissingClaims when the assertion lacks the account id, username,
// or stamp claims, and with ErrAccountMismatch when the assertion names a
// different account, so a leaked assertion can never be reconciled onto
// someone else. The original assertion is never mutated.
func Reconcile(a *Assertion, accountID int64, email, securityStamp string) (*Assertion, error) {
	if a == nil {
		return nil, ErrMissingClaims
	}
	claimedID, ok := a.First(TypeAccountID)
	if !ok {
		return nil, ErrMissingClaims
	}
	if _, ok := a.First(TypeUsername); !ok {
		return nil, ErrMissingClaims
	}
	if _, ok := a.First(TypeSecurityStamp); !ok {
		return nil, ErrMissingClaims
	}
	if claimedID != strconv.FormatInt(accountID, 10) {
		return nil, ErrAccountMismatch
	}

	changed := false
	out := make([]Claim, len(a.claims))
	copy(out, a.claims)
	for i := range out {
		switch out[i].Type {
		case TypeUsername:
			if out[i].Value != email {
				out[i].Value = email
				changed = true
			}
		case TypeSecurityStamp:
			if out[i].Value != securityStamp {
				out[i].Value = securityStamp
				changed = true
			}
		}
	}
	if !changed {
		return a, nil
	}
	return &Assertion{
		scheme:     a.scheme,
		authType:   a.authType,
		persistent: a.persistent,
		claims:     out,
	}, nil
}
