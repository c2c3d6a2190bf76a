package schema

import (
	"context"

	"github.com/stepski011/DevStore/internal/devstore/store"
)

// Relationship ties a child collection to its parent for cascade deletes.
type Relationship struct {
	// ParentType is the parent entity type, e.g. "Bootcamp".
	ParentType string

	// ChildType is the child entity type, e.g. "Course".
	ChildType string

	// ForeignKey is the child field holding the parent id, e.g. "bootcamp".
	ForeignKey string

	// Remove deletes every child matching a query.
	Remove func(ctx context.Context, q store.Query) (int, error)
}

// Relationships holds every known parent-child relationship.
type Relationships struct {
	byParent map[string][]Relationship
}

func NewRelationships() *Relationships {
	return &Relationships{byParent: make(map[string][]Relationship)}
}

func (r *Relationships) Register(rel Relationship) {
	r.byParent[rel.ParentType] = append(r.byParent[rel.ParentType], rel)
}

// ChildrenOf returns the child relationships of parentType in registration order.
func (r *Relationships) ChildrenOf(parentType string) []Relationship {
	return r.byParent[parentType]
}
