// Package protect defines the symmetric protect/unprotect primitive the
// token codec depends on. Keys are owned and rotated outside this module;
// the core only frames plaintext and never implements a cipher itself.
package protect

import (
	"context"
	"errors"
	"fmt"

	wrapping "github.com/hashicorp/go-kms-wrapping/v2"
	"google.golang.org/protobuf/proto"
)

// Protector is an authenticated-encryption primitive. Unprotect must fail
// on any tampered or foreign ciphertext.
type Protector interface {
	Protect(ctx context.Context, plaintext []byte) ([]byte, error)
	Unprotect(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// WrapperProtector adapts a go-kms-wrapping Wrapper to the Protector
// interface, carrying the ciphertext as a marshaled BlobInfo envelope so
// key ids and IVs survive the round trip.
type WrapperProtector struct {
	wrapper wrapping.Wrapper
}

// NewWrapperProtector describes the newwrapperprotector operation and its observable behavior.
//
// NewWrapperProtector may return an error when input validation, dependency calls, or security checks fail.
func NewWrapperProtector(w wrapping.Wrapper) (*WrapperProtector, error) {
	if w == nil {
		return nil, errors.New("nil wrapper")
	}
	return &WrapperProtector{wrapper: w}, nil
}

// Protect encrypts the plaintext and returns the marshaled envelope.
func (p *WrapperProtector) Protect(ctx context.Context, plaintext []byte) ([]byte, error) {
	blob, err := p.wrapper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}
	out, err := proto.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}
	return out, nil
}

// Unprotect reverses Protect. Any tamper, wrong key, or malformed envelope
// surfaces as an error; callers are expected to downgrade it to an invalid
// outcome rather than propagate details.
func (p *WrapperProtector) Unprotect(ctx context.Context, ciphertext []byte) ([]byte, error) {
	blob := new(wrapping.BlobInfo)
	if err := proto.Unmarshal(ciphertext, blob); err != nil {
		return nil, fmt.Errorf("unprotect: %w", err)
	}
	plaintext, err := p.wrapper.Decrypt(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("unprotect: %w", err)
	}
	return plaintext, nil
}
