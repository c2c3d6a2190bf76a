// Package pkglog configures slog for the application.
//
// Records are written as JSON with "ts", "severity" and "file" keys. Records
// logged with a request context also carry the correlation ID ("_cID") and,
// once the caller is authenticated, its "user_id".
package pkglog
