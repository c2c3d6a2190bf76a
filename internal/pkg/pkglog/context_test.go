package pkglog

import (
	"context"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelationID(ctx); got != "" {
		t.Fatalf("expected no correlation id, got %q", got)
	}

	ctx = SetCorrelationID(ctx, "cid-123")
	if got := GetCorrelationID(ctx); got != "cid-123" {
		t.Fatalf("expected cid-123, got %q", got)
	}
}

func TestUserID(t *testing.T) {
	ctx := SetCorrelationID(context.Background(), "cid-123")
	if got := GetUserID(ctx); got != "" {
		t.Fatalf("expected anonymous, got %q", got)
	}

	ctx = SetUserID(ctx, "user-1")
	if got := GetUserID(ctx); got != "user-1" {
		t.Fatalf("expected user-1, got %q", got)
	}
	if got := GetCorrelationID(ctx); got != "cid-123" {
		t.Fatalf("user id must not hide the correlation id, got %q", got)
	}
}
