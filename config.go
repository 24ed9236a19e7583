package accountcore

import (
	"errors"
	"time"
)

// Config defines a public type used by accountcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Password PasswordConfig
	Token    TokenConfig
	Totp     TotpConfig
	Stamp    StampConfig
	Session  SessionConfig
	Mail     MailConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by accountcore APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Iterations     int
	SaltLength     int
	KeyLength      int
	UpgradeOnLogin bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by accountcore APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	Lifespan time.Duration
}

// TotpConfig defines a public type used by accountcore APIs.
//
// TotpConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TotpConfig struct {
	Digits int
	Period time.Duration
	Skew   int
}

/*
====================================
STAMP CONFIG
====================================
*/

// StampConfig defines a public type used by accountcore APIs.
//
// StampConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StampConfig struct {
	// ValidationInterval is how old an issued ticket may grow before the
	// Engine re-checks its security stamp against the store.
	ValidationInterval time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by accountcore APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// TwoFactorPersistent controls whether the two-factor-pending session
	// inherits the persistent flag requested at login. Default false: the
	// pending session always dies with the browser session.
	TwoFactorPersistent bool
}

/*
====================================
MAIL CONFIG
====================================
*/

// MailConfig defines a public type used by accountcore APIs.
//
// MailConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MailConfig struct {
	ConfirmationSubject string
	ResetSubject        string
	TwoFactorSubject    string
	// LinkBaseURL is prepended to generated confirmation/reset links. The
	// token is appended as a query parameter by the composer.
	LinkBaseURL string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by accountcore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by accountcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Password: PasswordConfig{
			Iterations:     10000,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: true,
		},
		Token: TokenConfig{
			Lifespan: 24 * time.Hour,
		},
		Totp: TotpConfig{
			Digits: 6,
			Period: 30 * time.Second,
			Skew:   1,
		},
		Stamp: StampConfig{
			ValidationInterval: 30 * time.Minute,
		},
		Session: SessionConfig{
			TwoFactorPersistent: false,
		},
		Mail: MailConfig{
			ConfirmationSubject: "Confirm your email",
			ResetSubject:        "Reset your password",
			TwoFactorSubject:    "Your sign-in code",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c *Config) Validate() error {
	// Password
	if c.Password.Iterations < 1000 {
		return errors.New("Password Iterations must be >= 1000")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 32 {
		return errors.New("Password KeyLength must be >= 32")
	}

	// Token
	if c.Token.Lifespan <= 0 {
		return errors.New("Token Lifespan must be > 0")
	}

	// Totp
	if c.Totp.Digits != 6 && c.Totp.Digits != 8 {
		return errors.New("Totp Digits must be 6 or 8")
	}
	if c.Totp.Period < 15*time.Second {
		return errors.New("Totp Period must be >= 15s")
	}
	if c.Totp.Skew < 0 {
		return errors.New("Totp Skew must be >= 0")
	}

	// Stamp
	if c.Stamp.ValidationInterval <= 0 {
		return errors.New("Stamp ValidationInterval must be > 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
