package pkguid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerate(t *testing.T) {
	gen := NewUUID()
	id := gen.Generate()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	if id == gen.Generate() {
		t.Fatalf("expected unique ids")
	}
}

func TestValid(t *testing.T) {
	if !Valid(NewUUID().Generate()) {
		t.Fatalf("expected generated id to be valid")
	}
	for _, id := range []string{"", "123", "5d713995b721c3bb38c1f5d0", "urn:uuid:0190b6e0-7c2c-7a4e-9d61-5f1b3c2a9e10"} {
		if Valid(id) {
			t.Fatalf("expected %q to be invalid", id)
		}
	}
}
