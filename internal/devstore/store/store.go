package store

import (
	"context"
)

// Document is a storable entity value.
type Document interface {
	DocID() string
	UniqueFields() map[string]string
}

// Collection stores the documents of one entity type.
//
// Every implementation reports malformed ids with pkgerror.ErrIdentifierFormat,
// unique collisions with pkgerror.ErrDuplicateValue and misses with
// pkgerror.ErrNotFound.
type Collection[T Document] interface {
	Insert(ctx context.Context, doc *T) error
	Update(ctx context.Context, doc *T) error
	Get(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, q Query) (*T, error)
	Find(ctx context.Context, q Query) ([]*T, int, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, q Query) (int, error)
}
