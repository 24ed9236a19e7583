package token

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Totp derives short numeric one-time codes from the account identity, its
// security stamp, and the current time step (RFC 6238 style). No secret is
// provisioned and nothing is stored: the key is re-derived from account
// state, so rotating the security stamp invalidates outstanding codes just
// like the data-protection kind. Replay within one time window is an
// accepted tradeoff of the stateless design.
type Totp struct {
	digits int
	period int
	skew   int
	now    func() time.Time
}

// TotpConfig defines a public type used by accountcore APIs.
//
// TotpConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TotpConfig struct {
	Digits int // 6 or 8
	Period int // seconds per time step
	Skew   int // accepted steps either side of now
}

// NewTotp describes the newtotp operation and its observable behavior.
//
// NewTotp may return an error when input validation, dependency calls, or security checks fail.
func NewTotp(cfg TotpConfig) (*Totp, error) {
	if cfg.Digits == 0 {
		cfg.Digits = 6
	}
	if cfg.Digits != 6 && cfg.Digits != 8 {
		return nil, errors.New("totp digits must be 6 or 8")
	}
	if cfg.Period == 0 {
		cfg.Period = 30
	}
	if cfg.Period < 15 {
		return nil, errors.New("totp period must be >= 15 seconds")
	}
	if cfg.Skew < 0 {
		return nil, errors.New("totp skew must be >= 0")
	}
	return &Totp{digits: cfg.Digits, period: cfg.Period, skew: cfg.Skew, now: time.Now}, nil
}

// Generate returns the zero-padded decimal code for the current time step.
func (t *Totp) Generate(_ context.Context, purpose string, id Identity) (string, error) {
	if purpose == "" {
		return "", errors.New("empty token purpose")
	}
	counter := t.now().Unix() / int64(t.period)
	return t.code(id, purpose, counter), nil
}

// Validate recomputes the expected code for the current step and the
// configured skew either side of it. TOTP codes carry no issued-at, so the
// only outcomes are Valid and Invalid.
func (t *Totp) Validate(_ context.Context, purpose, tok string, id Identity) Result {
	if purpose == "" || len(tok) != t.digits || !isDigits(tok) {
		return Invalid
	}

	base := t.now().Unix() / int64(t.period)
	for step := -t.skew; step <= t.skew; step++ {
		counter := base + int64(step)
		if counter < 0 {
			continue
		}
		expected := t.code(id, purpose, counter)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(tok)) == 1 {
			return Valid
		}
	}
	return Invalid
}

// The derivation key folds in the email and security stamp; the modifier
// binds the code to one purpose and one account id.
func (t *Totp) code(id Identity, purpose string, counter int64) string {
	key := sha256.Sum256([]byte(id.Email + "\n" + id.SecurityStamp))
	modifier := "Totp:" + purpose + ":" + strconv.FormatInt(id.AccountID, 10)

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key[:])
	_, _ = mac.Write(msg[:])
	_, _ = mac.Write([]byte(modifier))
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < t.digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", t.digits, bin%mod)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
