// Package store persists the directory's documents.
//
// A Collection holds one entity type. Two implementations share the same
// query semantics: an in-memory one used by default and in tests, and a
// PostgreSQL one storing JSONB documents.
package store
