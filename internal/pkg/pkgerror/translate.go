package pkgerror

import (
	"errors"
	"net/http"
)

// Normalized is the single response shape every failure is reduced to.
type Normalized struct {
	StatusCode int
	Message    string

	// Details holds one message per violated field for validation failures.
	Details []string
}

// Body returns the value rendered under the "error" key of the response.
func (n Normalized) Body() any {
	if n.Details != nil {
		return n.Details
	}
	return n.Message
}

// Translate maps err to a Normalized response. The first matching rule wins:
// malformed identifiers, unique collisions, field validation, then the
// error's own status code and message.
func Translate(err error) Normalized {
	if errors.Is(err, ErrIdentifierFormat) {
		return Normalized{StatusCode: http.StatusNotFound, Message: "Resource not found"}
	}

	if errors.Is(err, ErrDuplicateValue) {
		return Normalized{StatusCode: http.StatusBadRequest, Message: "Duplicate value entered"}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		msgs := verr.Messages()
		return Normalized{StatusCode: http.StatusBadRequest, Message: verr.Error(), Details: msgs}
	}

	var gerr *Error
	if errors.As(err, &gerr) {
		msg := gerr.Msg()
		if msg == "" {
			msg = "Server Error"
		}
		return Normalized{StatusCode: gerr.StatusCode(), Message: msg}
	}

	return Normalized{StatusCode: http.StatusInternalServerError, Message: "Server Error"}
}
