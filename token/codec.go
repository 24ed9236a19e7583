package token

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/halcyonweb/accountcore/protect"
)

const defaultLifespan = 24 * time.Hour

// Codec is the data-protection token service. Generate frames (issued-at,
// account id, purpose, security stamp) and runs the frame through the
// injected Protector; Validate reverses that and re-derives validity, so
// tokens are never persisted anywhere.
type Codec struct {
	protector protect.Protector
	lifespan  time.Duration
	now       func() time.Time
}

// CodecConfig defines a public type used by accountcore APIs.
//
// CodecConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CodecConfig struct {
	Lifespan time.Duration
}

// NewCodec describes the newcodec operation and its observable behavior.
//
// NewCodec may return an error when input validation, dependency calls, or security checks fail.
func NewCodec(p protect.Protector, cfg CodecConfig) (*Codec, error) {
	if p == nil {
		return nil, errors.New("nil protector")
	}
	if cfg.Lifespan < 0 {
		return nil, errors.New("negative token lifespan")
	}
	if cfg.Lifespan == 0 {
		cfg.Lifespan = defaultLifespan
	}
	return &Codec{protector: p, lifespan: cfg.Lifespan, now: time.Now}, nil
}

// Generate produces an opaque token bound to the purpose and the account's
// current security stamp.
func (c *Codec) Generate(ctx context.Context, purpose string, id Identity) (string, error) {
	if purpose == "" {
		return "", errors.New("empty token purpose")
	}

	frame, err := encodeFrame(c.now().UTC(), id.AccountID, purpose, id.SecurityStamp)
	if err != nil {
		return "", err
	}
	sealed, err := c.protector.Protect(ctx, frame)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Validate checks a token against the purpose and the account's current
// state. Identity and tamper checks run before the expiry check, so a
// caller cannot learn whether a token for someone else's account has
// expired. Decryption and framing failures always downgrade to Invalid.
func (c *Codec) Validate(ctx context.Context, purpose, tok string, id Identity) Result {
	if purpose == "" || tok == "" {
		return Invalid
	}

	sealed, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		return Invalid
	}
	frame, err := c.protector.Unprotect(ctx, sealed)
	if err != nil {
		return Invalid
	}
	issuedAt, accountID, framedPurpose, framedStamp, err := decodeFrame(frame)
	if err != nil {
		return Invalid
	}

	if accountID != id.AccountID {
		return Invalid
	}
	if framedPurpose != purpose {
		return Invalid
	}
	if framedStamp != id.SecurityStamp {
		return Invalid
	}
	if c.now().After(issuedAt.Add(c.lifespan)) {
		return Expired
	}
	return Valid
}

// Frame layout: [int64 issued-at unix-nanos][uint32 account id]
// [uint16 purpose length][purpose][uint16 stamp length][stamp].
func encodeFrame(issuedAt time.Time, accountID int64, purpose, stamp string) ([]byte, error) {
	if accountID < 0 || accountID > int64(^uint32(0)) {
		return nil, errors.New("account id out of frame range")
	}
	if len(purpose) > int(^uint16(0)) || len(stamp) > int(^uint16(0)) {
		return nil, errors.New("frame field too long")
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, issuedAt.UnixNano())
	binary.Write(buf, binary.BigEndian, uint32(accountID))
	binary.Write(buf, binary.BigEndian, uint16(len(purpose)))
	buf.WriteString(purpose)
	binary.Write(buf, binary.BigEndian, uint16(len(stamp)))
	buf.WriteString(stamp)
	return buf.Bytes(), nil
}

func decodeFrame(frame []byte) (issuedAt time.Time, accountID int64, purpose, stamp string, err error) {
	r := bytes.NewReader(frame)

	var nanos int64
	if err = binary.Read(r, binary.BigEndian, &nanos); err != nil {
		return
	}
	var rawID uint32
	if err = binary.Read(r, binary.BigEndian, &rawID); err != nil {
		return
	}
	if purpose, err = readString(r); err != nil {
		return
	}
	if stamp, err = readString(r); err != nil {
		return
	}
	// Unconsumed trailing bytes mean the frame was extended or substituted.
	if r.Len() != 0 {
		err = errors.New("trailing bytes in token frame")
		return
	}

	return time.Unix(0, nanos).UTC(), int64(rawID), purpose, stamp, nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
