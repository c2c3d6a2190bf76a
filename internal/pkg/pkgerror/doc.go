// Package pkgerror holds the application's error vocabulary and the
// translator that turns any error into what a client is allowed to see.
//
// Stores return the sentinels (ErrNotFound, ErrIdentifierFormat,
// ErrDuplicateValue) or driver errors; use cases return *Error values with a
// client message and a Code; validators return a ValidationError. Translate
// folds all of them into one Normalized status and body.
package pkgerror
