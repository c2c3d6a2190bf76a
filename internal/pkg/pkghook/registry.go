package pkghook

import (
	"context"
	"fmt"
)

// Event is a point in a document's lifecycle.
type Event int

const (
	BeforeCreate Event = iota
	BeforeUpdate
	BeforeDelete
	AfterSave
	AfterDelete
)

func (e Event) String() string {
	switch e {
	case BeforeCreate:
		return "beforeCreate"
	case BeforeUpdate:
		return "beforeUpdate"
	case BeforeDelete:
		return "beforeDelete"
	case AfterSave:
		return "afterSave"
	case AfterDelete:
		return "afterDelete"
	default:
		return "unknown"
	}
}

// Entity is anything hooks can be registered for.
//
// EntityType must not dereference its receiver: it is called on nil pointers
// to discover the type a hook is bound to.
type Entity interface {
	EntityType() string
}

// Func is a hook. It may mutate e; returning an error aborts the operation.
type Func func(ctx context.Context, e Entity) error

type key struct {
	entityType string
	event      Event
}

type hook struct {
	name string
	fn   Func
}

// Registry holds every hook known to the application.
type Registry struct {
	hooks  map[key][]hook
	sealed bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[key][]hook)}
}

// Register appends fn to the hooks of entityType for event. Registering the
// same function twice is allowed; both copies run.
//
// Register panics once the registry is sealed.
func (r *Registry) Register(entityType string, event Event, name string, fn Func) {
	if r.sealed {
		panic(fmt.Sprintf("pkghook: register %s/%s/%s after seal", entityType, event, name))
	}
	k := key{entityType: entityType, event: event}
	r.hooks[k] = append(r.hooks[k], hook{name: name, fn: fn})
}

// Seal freezes the registry. It is safe for concurrent use afterwards.
func (r *Registry) Seal() {
	r.sealed = true
}

// Names returns the hook names of entityType for event, in run order.
func (r *Registry) Names(entityType string, event Event) []string {
	hooks := r.hooks[key{entityType: entityType, event: event}]
	names := make([]string, 0, len(hooks))
	for _, h := range hooks {
		names = append(names, h.name)
	}
	return names
}

// On registers a typed hook for the entity type of T, for each of events.
func On[T Entity](r *Registry, name string, fn func(ctx context.Context, e T) error, events ...Event) {
	var zero T
	entityType := zero.EntityType()
	wrapped := func(ctx context.Context, e Entity) error {
		typed, ok := e.(T)
		if !ok {
			return fmt.Errorf("pkghook: hook %q expects %T, got %T", name, zero, e)
		}
		return fn(ctx, typed)
	}
	for _, ev := range events {
		r.Register(entityType, ev, name, wrapped)
	}
}

// Run executes the hooks of e's type for event in registration order and
// stops at the first error, which is returned unchanged.
func (r *Registry) Run(ctx context.Context, event Event, e Entity) error {
	for _, h := range r.hooks[key{entityType: e.EntityType(), event: event}] {
		if err := h.fn(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
