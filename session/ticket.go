// Package session carries identity assertions between requests. The core
// treats the transport as opaque; this package supplies the ticket model,
// a redis-backed server-side ticket store, and a per-request transport
// binding the store to whatever carries the ticket id (usually a cookie).
package session

import (
	"time"

	"github.com/halcyonweb/accountcore/claims"
)

// Schemes addressable on a transport. A two-factor-pending identity must
// never satisfy checks meant for a fully authenticated one, so the two
// live under independently addressable names.
const (
	SchemeApplication = "Application"
	SchemeTwoFactor   = "TwoFactor"
)

// Ticket is one issued session: the assertion plus when it was issued.
// IssuedAt drives the security-stamp revalidation cadence.
type Ticket struct {
	Assertion *claims.Assertion `json:"assertion"`
	IssuedAt  time.Time         `json:"issued_at"`
}
