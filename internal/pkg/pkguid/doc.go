// Package pkguid provides helpers for generating and checking unique identifiers.
//
// Every persisted document is keyed by a UUIDv7 string. Keeping generation
// behind the StringID interface lets tests swap in deterministic IDs.
package pkguid
