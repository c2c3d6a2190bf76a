package event

import (
	"context"
	"errors"
	"sync"

	"github.com/stepski011/DevStore/internal/devstore/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// Bus carries aggregate events from the save hooks to the consumer. Publish
// blocks while the buffer is full, bounded by the caller's context.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	events chan entity.AggregateEvent
}

func NewBus(buffer int) *Bus {
	return &Bus{events: make(chan entity.AggregateEvent, max(buffer, 1))}
}

func (b *Bus) Publish(ctx context.Context, event entity.AggregateEvent) error {
	// the read lock keeps Close from closing the channel under a send
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns the event stream. It ends once the bus is closed and
// drained.
func (b *Bus) Subscribe() <-chan entity.AggregateEvent {
	return b.events
}

// Pending is the number of buffered events not yet dispatched.
func (b *Bus) Pending() int {
	return len(b.events)
}

// Close stops new publishes. Calling it twice is harmless.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.events)
	}
}
