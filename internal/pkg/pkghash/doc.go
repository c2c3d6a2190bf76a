// Package pkghash hashes and verifies secrets.
//
// Passwords go through bcrypt; single-use tokens (password reset) are stored
// as their SHA-256 hex digest so a leaked table cannot be replayed.
package pkghash
