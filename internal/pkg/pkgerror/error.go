package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by stores when no record matches.
	ErrNotFound = errors.New("resource not found")

	// ErrIdentifierFormat is returned when an id is not in the shape the
	// store expects. It is reported to clients as a missing resource.
	ErrIdentifierFormat = errors.New("malformed identifier")

	// ErrDuplicateValue is returned when a write hits a unique constraint.
	ErrDuplicateValue = errors.New("duplicate value for unique field")
)

// Type classifies errors into high-level buckets.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
	TypeExternal
)

type typeInfo struct {
	name     string
	fallback string
}

//nolint:gochecknoglobals // lookup table
var types = map[Type]typeInfo{
	TypeServer:     {"ERROR_TYPE_SERVER", "Internal error"},
	TypeBusiness:   {"ERROR_TYPE_BUSINESS", "Logical business not meet with requirement"},
	TypeValidation: {"ERROR_TYPE_VALIDATION", "Validation violation"},
	TypeExternal:   {"ERROR_TYPE_EXTERNAL", "External service failure"},
}

func (t Type) String() string {
	if info, ok := types[t]; ok {
		return info.name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code is a stable identifier mapped to an HTTP status at the edge.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
	CodeTooManyRequests
)

type codeInfo struct {
	name   string
	status int
}

//nolint:gochecknoglobals // lookup table
var codes = map[Code]codeInfo{
	CodeInternal:        {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:   {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:    {"ERROR_CODE_INVALID_INPUT", http.StatusBadRequest},
	CodeNotFound:        {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:        {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeUnauthorized:    {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
	CodeForbidden:       {"ERROR_CODE_FORBIDDEN", http.StatusForbidden},
	CodeTimeout:         {"ERROR_CODE_TIMEOUT", http.StatusRequestTimeout},
	CodeTooManyRequests: {"ERROR_CODE_TOO_MANY_REQUESTS", http.StatusTooManyRequests},
}

func (c Code) info() codeInfo {
	if info, ok := codes[c]; ok {
		return info
	}
	return codes[CodeInternal]
}

func (c Code) String() string { return c.info().name }

// Error is the structured error used across the application. msg is what a
// client may see; err is the cause and stays in logs.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

// Error returns the cause's text when there is one, otherwise the message.
func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	}
	if info, ok := types[e.errType]; ok {
		return info.fallback
	}
	return "Unknown error"
}

// String is the verbose form written to logs.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string   { return e.msg }
func (e *Error) Type() Type    { return e.errType }
func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int { return e.code.info().status }

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer hides err behind the generic "Server Error" message.
func NewServer(err error) error {
	return new(err, "Server Error", TypeServer, CodeInternal)
}

// NewBusiness reports a rule violation; msg is shown to the client as is.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

// NewInvalidInput reports err's own text to the client.
func NewInvalidInput(err error) error {
	return new(err, err.Error(), TypeValidation, CodeInvalidInput)
}

func NewInvalidFormat() error {
	return new(nil, "invalid request body", TypeValidation, CodeInvalidFormat)
}

// NewExternal wraps a failure of an outside service such as the geocoder
// or the mailer. The client sees msg.
func NewExternal(err error, msg string) error {
	return new(err, msg, TypeExternal, CodeInternal)
}
