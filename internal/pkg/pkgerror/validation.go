package pkgerror

import "strings"

// FieldViolation is one failed constraint on one field.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError collects every violated field constraint of a document, in
// declaration order.
type ValidationError struct {
	Violations []FieldViolation
}

// NewValidation builds a ValidationError from violations.
func NewValidation(violations ...FieldViolation) error {
	return &ValidationError{Violations: violations}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), ",")
}

// Messages returns one message per violated field.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return msgs
}
