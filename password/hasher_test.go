package password

import (
	"encoding/base64"
	"strings"
	"testing"
)

func newHasher(t *testing.T, cfg Config) *Hasher {
	t.Helper()

	h, err := NewHasher(cfg)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func defaultTestConfig() Config {
	return Config{Iterations: 1000, SaltLength: 16, KeyLength: 32}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := newHasher(t, defaultTestConfig())

	first, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct blobs for the same password (fresh salt per call)")
	}
	if !h.Verify(first, "correct horse battery staple") {
		t.Fatal("expected first blob to verify")
	}
	if !h.Verify(second, "correct horse battery staple") {
		t.Fatal("expected second blob to verify")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	h := newHasher(t, defaultTestConfig())

	hash, err := h.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h.Verify(hash, "wrong-password") {
		t.Fatal("expected verification to fail for wrong password")
	}
	if h.Verify(hash, "") {
		t.Fatal("expected verification to fail for empty password")
	}
}

func TestVerifyMalformedBlobsNeverPanic(t *testing.T) {
	h := newHasher(t, defaultTestConfig())

	valid, err := h.Hash("some-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	cases := map[string]string{
		"empty":          "",
		"not base64":     "!!not-base64!!",
		"plain garbage":  base64.StdEncoding.EncodeToString([]byte("garbage")),
		"wrong marker":   base64.StdEncoding.EncodeToString(append([]byte{0xFF}, make([]byte, 64)...)),
		"truncated":      valid[:len(valid)/2],
		"oversized blob": strings.Repeat("A", 2048),
	}
	for name, blob := range cases {
		if h.Verify(blob, "some-password") {
			t.Fatalf("%s: expected malformed blob to fail verification", name)
		}
	}
}

func TestNeedsUpgrade(t *testing.T) {
	weak := newHasher(t, Config{Iterations: 1000, SaltLength: 16, KeyLength: 32})
	strong := newHasher(t, Config{Iterations: 10000, SaltLength: 16, KeyLength: 32})

	weakHash, err := weak.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	strongHash, err := strong.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if !strong.NeedsUpgrade(weakHash) {
		t.Fatal("expected hash with fewer iterations to need upgrade")
	}
	if strong.NeedsUpgrade(strongHash) {
		t.Fatal("expected hash at current parameters to not need upgrade")
	}
	if weak.NeedsUpgrade(strongHash) {
		t.Fatal("expected stronger-than-configured hash to not need upgrade")
	}
	if strong.NeedsUpgrade("not a hash") {
		t.Fatal("expected malformed blob to report no upgrade")
	}
}

func TestUpgradedHashStillVerifiesOldOne(t *testing.T) {
	weak := newHasher(t, Config{Iterations: 1000, SaltLength: 16, KeyLength: 32})
	strong := newHasher(t, Config{Iterations: 10000, SaltLength: 16, KeyLength: 32})

	weakHash, err := weak.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// Iteration count travels in the blob, so a stronger hasher still
	// verifies hashes written under older parameters.
	if !strong.Verify(weakHash, "pw") {
		t.Fatal("expected strong hasher to verify weak-parameter hash")
	}
}

func TestNewHasherRejectsWeakConfig(t *testing.T) {
	cases := map[string]Config{
		"low iterations":  {Iterations: 10, SaltLength: 16, KeyLength: 32},
		"huge iterations": {Iterations: 1 << 30, SaltLength: 16, KeyLength: 32},
		"short salt":      {Iterations: 1000, SaltLength: 8, KeyLength: 32},
		"short key":       {Iterations: 1000, SaltLength: 16, KeyLength: 16},
	}
	for name, cfg := range cases {
		if _, err := NewHasher(cfg); err == nil {
			t.Fatalf("%s: expected config rejection", name)
		}
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := newHasher(t, defaultTestConfig())
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected empty password to be rejected")
	}
}
