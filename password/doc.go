// Package password implements password hashing and verification with PBKDF2-SHA256.
//
// # Output format
//
// Hashes are encoded as a base64 blob with a binary header:
//
//	[marker][iterations][salt length][salt][derived key]
//
// The [Hasher] supports transparent parameter upgrades: if the stored hash was
// produced with weaker parameters, [Hasher.NeedsUpgrade] returns true so the caller
// can re-hash on the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length, reuse
// history) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other accountcore package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
