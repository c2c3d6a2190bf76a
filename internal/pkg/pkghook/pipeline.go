package pkghook

import (
	"context"
	"log/slog"
)

// State is the progress of one save or delete operation.
type State int

const (
	StatePending State = iota
	StateHooksRunning
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateHooksRunning:
		return "hooks_running"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Mode tells Save which before-hooks apply.
type Mode int

const (
	Create Mode = iota
	Update
)

func (m Mode) event() Event {
	if m == Update {
		return BeforeUpdate
	}
	return BeforeCreate
}

// Persist performs the storage write once every before-hook succeeded.
type Persist func(ctx context.Context) error

// Save runs the before-hooks for mode, then persist, then the AfterSave hooks.
func (r *Registry) Save(ctx context.Context, e Entity, mode Mode, persist Persist) error {
	_, err := r.run(ctx, e, mode.event(), AfterSave, persist)
	return err
}

// Delete runs the BeforeDelete hooks, then remove, then the AfterDelete hooks.
func (r *Registry) Delete(ctx context.Context, e Entity, remove Persist) error {
	_, err := r.run(ctx, e, BeforeDelete, AfterDelete, remove)
	return err
}

func (r *Registry) run(ctx context.Context, e Entity, before, after Event, persist Persist) (State, error) {
	entityType := e.EntityType()

	state := StateHooksRunning
	if err := r.Run(ctx, before, e); err != nil {
		state = StateAborted
		slog.DebugContext(ctx, "lifecycle aborted by hook", "entity", entityType, "event", before.String(), "state", state.String(), "error", err)
		return state, err
	}

	if err := persist(ctx); err != nil {
		state = StateAborted
		slog.DebugContext(ctx, "lifecycle aborted by storage", "entity", entityType, "event", before.String(), "state", state.String(), "error", err)
		return state, err
	}
	state = StateCommitted

	for _, h := range r.hooks[key{entityType: entityType, event: after}] {
		if err := h.fn(ctx, e); err != nil {
			slog.ErrorContext(ctx, "after-commit hook failed", "entity", entityType, "event", after.String(), "hook", h.name, "error", err)
		}
	}

	return state, nil
}
