package argon

import (
	"errors"
	"testing"
)

var fastParams = &Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestCreateAndCompare(t *testing.T) {
	hash, err := CreateHash("operator-key", fastParams)
	if err != nil {
		t.Fatalf("create hash: %v", err)
	}
	ok, err := Compare("operator-key", hash)
	if err != nil {
		t.Fatalf("compare hash: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to match")
	}

	ok, err = Compare("wrong", hash)
	if err != nil {
		t.Fatalf("compare hash wrong: %v", err)
	}
	if ok {
		t.Fatalf("expected key mismatch")
	}
}

func TestKeyCheck(t *testing.T) {
	hash, err := CreateHash("bridge-key", fastParams)
	if err != nil {
		t.Fatalf("create hash: %v", err)
	}
	k, err := NewKeyCheck(hash)
	if err != nil {
		t.Fatalf("new key check: %v", err)
	}
	if !k.Enabled() || !k.Allow("bridge-key") {
		t.Fatalf("expected configured key to be accepted")
	}
	if k.Allow("") || k.Allow("other") {
		t.Fatalf("expected empty and wrong keys to be rejected")
	}

	disabled, err := NewKeyCheck("  ")
	if err != nil {
		t.Fatalf("empty hash: %v", err)
	}
	if disabled.Enabled() || disabled.Allow("bridge-key") {
		t.Fatalf("expected disabled check to accept nothing")
	}
}

func TestNewKeyCheckRejectsMalformedHash(t *testing.T) {
	for _, h := range []string{"plain", "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=19$m=x$c2FsdA$aGFzaA"} {
		if _, err := NewKeyCheck(h); !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", h, err)
		}
	}
}

func TestCreateHashRequiresSecret(t *testing.T) {
	if _, err := CreateHash(" ", nil); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}
