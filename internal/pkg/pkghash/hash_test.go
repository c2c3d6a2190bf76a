package pkghash

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndCompare(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hashed, err := h.Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "123456" || !strings.HasPrefix(hashed, "$2a$") {
		t.Fatalf("unexpected hash: %q", hashed)
	}

	ok, err := h.Compare(hashed, "123456")
	if err != nil || !ok {
		t.Fatalf("expected match, got %v (%v)", ok, err)
	}

	ok, err = h.Compare(hashed, "654321")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got %v (%v)", ok, err)
	}

	if _, err := h.Compare("not-a-hash", "123456"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestNewBcryptDefaultCost(t *testing.T) {
	if got := NewBcrypt(0).cost; got != DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestToken(t *testing.T) {
	plain, digest, err := Token(20)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if len(plain) != 40 {
		t.Fatalf("expected 40 hex chars, got %d", len(plain))
	}
	if digest != Digest(plain) || len(digest) != 64 {
		t.Fatalf("unexpected digest %q", digest)
	}
}
