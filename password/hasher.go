package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Blob layout: [1-byte format marker][uint32 iterations][uint32 salt length]
// [salt][derived subkey], base64 encoded. The marker allows the format to
// evolve without invalidating stored hashes.
const (
	formatMarker byte = 0x01
	headerSize        = 1 + 4 + 4

	minIterations = 1000
	minSaltLength = 16
	minKeyLength  = sha256.Size

	// Anything past this is not a hash this package produced.
	maxBlobSize   = 1024
	maxIterations = 1 << 24
)

// Config defines a public type used by accountcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// Hasher derives and verifies salted PBKDF2-HMAC-SHA256 password hashes.
// It owns no state beyond configuration and is safe for concurrent use.
type Hasher struct {
	config Config
	random io.Reader
}

// NewHasher validates the configuration and returns a ready hasher.
// Misconfiguration (a non-positive iteration count in particular) fails
// here, never at verify time.
func NewHasher(cfg Config) (*Hasher, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Hasher{config: cfg, random: rand.Reader}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Iterations < minIterations {
		return errors.New("password iterations must be >= 1000")
	}
	if cfg.Iterations > maxIterations {
		return errors.New("password iterations too large")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("password salt length must be >= 16")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("password key length must be >= 32")
	}
	return nil
}

// Hash derives a new salted hash for the password. Each call draws a fresh
// salt, so hashing the same password twice yields different blobs.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", err
	}

	subkey := pbkdf2.Key([]byte(password), salt, h.config.Iterations, h.config.KeyLength, sha256.New)

	blob := make([]byte, headerSize+len(salt)+len(subkey))
	blob[0] = formatMarker
	binary.BigEndian.PutUint32(blob[1:5], uint32(h.config.Iterations))
	binary.BigEndian.PutUint32(blob[5:9], uint32(len(salt)))
	copy(blob[headerSize:], salt)
	copy(blob[headerSize+len(salt):], subkey)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Verify re-derives the subkey using the iteration count and salt embedded
// in the stored hash and compares in constant time. Malformed, truncated,
// or oversized blobs report false; corruption is never distinguishable
// from a wrong password.
func (h *Hasher) Verify(encodedHash, password string) bool {
	iterations, salt, stored, ok := decodeBlob(encodedHash)
	if !ok {
		return false
	}

	computed := pbkdf2.Key([]byte(password), salt, iterations, len(stored), sha256.New)
	return subtle.ConstantTimeCompare(computed, stored) == 1
}

// NeedsUpgrade reports whether a stored hash was produced with weaker
// parameters than currently configured, so callers can transparently
// re-hash on the next successful login.
func (h *Hasher) NeedsUpgrade(encodedHash string) bool {
	iterations, _, stored, ok := decodeBlob(encodedHash)
	if !ok {
		return false
	}
	if iterations < h.config.Iterations {
		return true
	}
	return len(stored) < h.config.KeyLength
}

func decodeBlob(encodedHash string) (iterations int, salt, subkey []byte, ok bool) {
	if encodedHash == "" || len(encodedHash) > maxBlobSize {
		return 0, nil, nil, false
	}
	blob, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil {
		return 0, nil, nil, false
	}
	if len(blob) < headerSize || blob[0] != formatMarker {
		return 0, nil, nil, false
	}

	iter := binary.BigEndian.Uint32(blob[1:5])
	if iter == 0 || iter > maxIterations {
		return 0, nil, nil, false
	}
	saltLen := binary.BigEndian.Uint32(blob[5:9])
	if saltLen < minSaltLength || int(saltLen) > len(blob)-headerSize {
		return 0, nil, nil, false
	}

	salt = blob[headerSize : headerSize+saltLen]
	subkey = blob[headerSize+saltLen:]
	if len(subkey) < minKeyLength {
		return 0, nil, nil, false
	}

	return int(iter), salt, subkey, true
}
