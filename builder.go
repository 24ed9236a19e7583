package accountcore

import (
	"errors"
	"time"

	"github.com/halcyonweb/accountcore/internal/audit"
	"github.com/halcyonweb/accountcore/password"
	"github.com/halcyonweb/accountcore/protect"
	"github.com/halcyonweb/accountcore/token"
)

// Builder defines a public type used by accountcore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	accounts  AccountStore
	sessions  SessionTransport
	email     EmailSender
	protector protect.Protector
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithAccounts describes the withaccounts operation and its observable behavior.
func (b *Builder) WithAccounts(store AccountStore) *Builder {
	b.accounts = store
	return b
}

// WithSessions describes the withsessions operation and its observable behavior.
func (b *Builder) WithSessions(transport SessionTransport) *Builder {
	b.sessions = transport
	return b
}

// WithEmailSender describes the withemailsender operation and its observable behavior.
func (b *Builder) WithEmailSender(sender EmailSender) *Builder {
	b.email = sender
	return b
}

// WithProtector describes the withprotector operation and its observable behavior.
func (b *Builder) WithProtector(p protect.Protector) *Builder {
	b.protector = p
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.accounts == nil {
		return nil, errors.New("account store required")
	}
	if b.sessions == nil {
		return nil, errors.New("session transport required")
	}
	if b.email == nil {
		return nil, errors.New("email sender required")
	}
	if b.protector == nil {
		return nil, errors.New("protector required")
	}

	hasher, err := password.NewHasher(password.Config{
		Iterations: cfg.Password.Iterations,
		SaltLength: cfg.Password.SaltLength,
		KeyLength:  cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(b.protector, token.CodecConfig{
		Lifespan: cfg.Token.Lifespan,
	})
	if err != nil {
		return nil, err
	}

	totp, err := token.NewTotp(token.TotpConfig{
		Digits: cfg.Totp.Digits,
		Period: int(cfg.Totp.Period / time.Second),
		Skew:   cfg.Totp.Skew,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:   cfg,
		accounts: b.accounts,
		sessions: b.sessions,
		email:    b.email,
		hasher:   hasher,
		tokens: token.Registry{
			token.KindDataProtection: codec,
			token.KindTotp:           totp,
		},
		audit:   audit.NewDispatcher(auditDispatchConfig(cfg.Audit), b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
		now:     time.Now,
	}

	b.built = true

	return engine, nil
}

func auditDispatchConfig(cfg AuditConfig) audit.Config {
	return audit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}
}
