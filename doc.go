// Package accountcore provides an embeddable account-security core: PBKDF2
// password hashing with transparent upgrades, purpose-bound single-use tokens,
// claims-based identity assertions, and security-stamp session revalidation.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// accountcore is the public surface. It exposes [Engine], [Builder], [Config],
// the [AccountStore]/[EmailSender]/[SessionTransport] integration interfaces,
// and value types (MetricsSnapshot, the per-flow result unions, etc.). Token
// framing, claim assembly, hashing, and session transport live in focused
// subpackages; audit dispatch lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, token frame layouts, or encoding details in its
//     public API.
//   - Persist issued tokens anywhere. Tokens are re-derived and checked
//     against the account's security stamp; rotating the stamp is the only
//     revocation mechanism.
//   - Import any sub-package that re-imports accountcore (no import cycles).
package accountcore
