// Package internal contains helper utilities that are intentionally private to
// the account-security core, including secure ticket id generation.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//
// # What this package must NOT do
//
//   - Export types that appear in the public accountcore API.
//   - Be imported by any package outside the accountcore module.
package internal
