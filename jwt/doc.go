// Package jwt signs session tickets into compact JWTs and verifies them back,
// for deployments that carry the authenticated assertion in a signed cookie
// instead of a server-side ticket store.
package jwt
