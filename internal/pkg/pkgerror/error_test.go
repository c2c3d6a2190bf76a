package pkgerror

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestTypeString(t *testing.T) {
	cases := map[Type]string{
		TypeValidation: "ERROR_TYPE_VALIDATION",
		TypeBusiness:   "ERROR_TYPE_BUSINESS",
		TypeServer:     "ERROR_TYPE_SERVER",
		TypeExternal:   "ERROR_TYPE_EXTERNAL",
		Type(99):       "ERROR_TYPE_UNKNOWN",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Fatalf("type %d: expected %q, got %q", typ, want, got)
		}
	}
}

func TestCodeStatusAndName(t *testing.T) {
	cases := []struct {
		code   Code
		name   string
		status int
	}{
		{CodeInvalidFormat, "ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
		{CodeInvalidInput, "ERROR_CODE_INVALID_INPUT", http.StatusBadRequest},
		{CodeNotFound, "ERROR_CODE_NOT_FOUND", http.StatusNotFound},
		{CodeConflict, "ERROR_CODE_CONFLICT", http.StatusConflict},
		{CodeUnauthorized, "ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
		{CodeForbidden, "ERROR_CODE_FORBIDDEN", http.StatusForbidden},
		{CodeTimeout, "ERROR_CODE_TIMEOUT", http.StatusRequestTimeout},
		{CodeTooManyRequests, "ERROR_CODE_TOO_MANY_REQUESTS", http.StatusTooManyRequests},
		{CodeInternal, "ERROR_CODE_INTERNAL", http.StatusInternalServerError},
		{Code(99), "ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.String(); got != tc.name {
			t.Fatalf("code %d: expected name %q, got %q", tc.code, tc.name, got)
		}
		if got := new(nil, "x", TypeBusiness, tc.code).(*Error).StatusCode(); got != tc.status {
			t.Fatalf("code %d: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestNewServerHidesCause(t *testing.T) {
	root := errors.New("pq: connection refused")
	gerr := NewServer(root).(*Error)

	if !errors.Is(gerr, root) {
		t.Fatalf("expected wrapped error")
	}
	if gerr.Msg() != "Server Error" || gerr.Type() != TypeServer || gerr.Code() != CodeInternal {
		t.Fatalf("unexpected server error: %s", gerr.String())
	}
	if got := gerr.Error(); got != root.Error() {
		t.Fatalf("expected cause text for logs, got %q", got)
	}
}

func TestBusinessAndValidationErrors(t *testing.T) {
	biz := NewBusiness("No bootcamp with the id of 1", CodeNotFound).(*Error)
	if got := biz.Error(); got != "No bootcamp with the id of 1" {
		t.Fatalf("unexpected business error: %q", got)
	}
	if biz.Unwrap() != nil {
		t.Fatalf("expected no cause")
	}

	root := errors.New("Please provide an email and password")
	invalid := NewInvalidInput(root).(*Error)
	if invalid.Msg() != root.Error() || !errors.Is(invalid, root) {
		t.Fatalf("unexpected invalid input: %s", invalid.String())
	}

	if got := NewInvalidFormat().Error(); got != "invalid request body" {
		t.Fatalf("unexpected invalid format error: %q", got)
	}
}

func TestNewExternal(t *testing.T) {
	root := errors.New("dial tcp: timeout")
	gerr := NewExternal(root, "Email could not be sent").(*Error)

	if gerr.Msg() != "Email could not be sent" || gerr.Type() != TypeExternal {
		t.Fatalf("unexpected external error: %s", gerr.String())
	}
	if gerr.StatusCode() != http.StatusInternalServerError || !errors.Is(gerr, root) {
		t.Fatalf("unexpected external status or cause")
	}
}

func TestErrorFallbackMessages(t *testing.T) {
	cases := map[Type]string{
		TypeValidation: "Validation violation",
		TypeBusiness:   "Logical business not meet with requirement",
		TypeExternal:   "External service failure",
		TypeServer:     "Internal error",
		Type(42):       "Unknown error",
	}
	for typ, want := range cases {
		if got := new(nil, "", typ, CodeInternal).Error(); got != want {
			t.Fatalf("type %d: expected %q, got %q", typ, want, got)
		}
	}
}

func TestErrorStringIncludesDetails(t *testing.T) {
	str := NewBusiness("User role user is not authorized to access this route", CodeForbidden).(*Error).String()
	for _, want := range []string{"ERROR_TYPE_BUSINESS", "ERROR_CODE_FORBIDDEN", "User role user"} {
		if !strings.Contains(str, want) {
			t.Fatalf("expected %q in %q", want, str)
		}
	}
}
