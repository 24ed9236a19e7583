package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/halcyonweb/accountcore/claims"
	"github.com/halcyonweb/accountcore/session"
)

// SigningMethod defines a public type used by accountcore APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodEd25519 is an exported constant or variable used by the account-security core.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 is an exported constant or variable used by the account-security core.
	MethodHS256 SigningMethod = "hs256"
)

// Config defines a public type used by accountcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
	MaxFutureIAT  time.Duration
}

// Codec signs session tickets into compact JWTs and reads them back, for
// deployments that carry the assertion in a signed cookie instead of a
// server-side ticket store. The claim list survives the round trip in
// order; nothing beyond the assertion and issue time is encoded.
type Codec struct {
	config Config
}

type ticketClaims struct {
	Scheme     string         `json:"sch"`
	AuthType   string         `json:"aty"`
	Persistent bool           `json:"per,omitempty"`
	Claims     []claims.Claim `json:"clm"`
	jwt.RegisteredClaims
}

// NewCodec describes the newcodec operation and its observable behavior.
//
// NewCodec may return an error when input validation, dependency calls, or security checks fail.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = 10 * time.Minute
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Codec{config: cfg}, nil
}

// Encode signs the ticket. The subject is the assertion's account id claim
// when present, which keeps tokens greppable in debug tooling without
// adding a second source of truth.
func (c *Codec) Encode(ticket *session.Ticket) (string, error) {
	if ticket == nil || ticket.Assertion == nil {
		return "", errors.New("nil ticket")
	}

	tc := ticketClaims{
		Scheme:     ticket.Assertion.Scheme(),
		AuthType:   ticket.Assertion.AuthenticationType(),
		Persistent: ticket.Assertion.Persistent(),
		Claims:     ticket.Assertion.Claims(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(ticket.IssuedAt.Add(c.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(ticket.IssuedAt),
			Issuer:    c.config.Issuer,
		},
	}
	if id, ok := claims.ExtractAccountID(ticket.Assertion, ticket.Assertion.AuthenticationType()); ok {
		tc.Subject = strconv.FormatInt(id, 10)
	}

	token := jwt.NewWithClaims(c.getMethod(), tc)

	signKey, err := c.getSignKey()
	if err != nil {
		return "", err
	}
	return token.SignedString(signKey)
}

// Decode verifies the signature and reconstructs the ticket. Tokens signed
// with any other method, expired tokens, and tokens issued in the future
// all fail.
func (c *Codec) Decode(tokenStr string) (*session.Ticket, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.getMethod().Alg()}),
		jwt.WithIssuedAt(),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &ticketClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.getMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return c.getVerifyKey()
	})
	if err != nil {
		return nil, err
	}

	tc, ok := token.Claims.(*ticketClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if tc.IssuedAt == nil {
		return nil, errors.New("token missing iat")
	}
	if tc.IssuedAt.Time.After(time.Now().Add(c.config.MaxFutureIAT)) {
		return nil, errors.New("token iat too far in the future")
	}

	return &session.Ticket{
		Assertion: claims.NewAssertion(tc.Scheme, tc.AuthType, tc.Persistent, tc.Claims),
		IssuedAt:  tc.IssuedAt.Time,
	}, nil
}

func (c *Codec) getMethod() jwt.SigningMethod {
	switch c.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (c *Codec) getSignKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodHS256:
		return c.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(c.config.PrivateKey)
	}
}

func (c *Codec) getVerifyKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodHS256:
		return c.config.PrivateKey, nil
	default:
		return parseEdPublicKey(c.config.PublicKey)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
