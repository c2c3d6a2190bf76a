// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like the JSON response envelope, error translation, logging, recovery,
// correlation ID propagation, rate limiting and input sanitization.
package pkgrouter
