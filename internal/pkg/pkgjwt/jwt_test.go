package pkgjwt

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	s := NewSigner("secret", time.Hour)

	token, err := s.Sign("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	sub, err := s.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("expected user-1, got %q", sub)
	}
}

func TestParseRejectsForgedToken(t *testing.T) {
	token, err := NewSigner("secret", time.Hour).Sign("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewSigner("other", time.Hour).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := NewSigner("secret", time.Hour).Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	s := NewSigner("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issued }

	token, err := s.Sign("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s.now = time.Now
	if _, err := s.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}
