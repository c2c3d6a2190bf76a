// Package entity holds the documents of the bootcamp directory.
//
// Every document type has a pointer-receiver EntityType, so lifecycle hooks
// can be bound to it, and value-receiver DocID and UniqueFields used by the
// storage layer. Json tags double as the stored field names.
package entity
