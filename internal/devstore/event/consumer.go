package event

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/stepski011/DevStore/internal/devstore/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.AggregateEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// AggregateConsumer drains the bus into a fixed set of shards. Every event of
// one bootcamp lands on the same shard, so recomputes of a bootcamp never run
// concurrently and apply in publish order.
type AggregateConsumer struct {
	bus         *Bus
	handler     Handler
	shards      []chan entity.AggregateEvent
	maxRetries  int
	baseBackoff time.Duration
	wg          sync.WaitGroup
}

func NewAggregateConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *AggregateConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}
	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	shards := make([]chan entity.AggregateEvent, workers)
	for i := range shards {
		shards[i] = make(chan entity.AggregateEvent, 16)
	}

	return &AggregateConsumer{
		bus:         bus,
		handler:     handler,
		shards:      shards,
		maxRetries:  max(cfg.MaxRetries, 0),
		baseBackoff: baseBackoff,
	}
}

func (c *AggregateConsumer) Start() {
	for _, shard := range c.shards {
		c.wg.Add(1)
		go c.work(shard)
	}

	c.wg.Add(1)
	go c.dispatch()
}

// Stop closes the bus and waits for queued events to drain or ctx to expire.
func (c *AggregateConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		slog.InfoContext(ctx, "draining aggregate events", "pending", c.bus.Pending())
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *AggregateConsumer) dispatch() {
	defer c.wg.Done()
	defer func() {
		for _, shard := range c.shards {
			close(shard)
		}
	}()

	for event := range c.bus.Subscribe() {
		c.shards[c.shardOf(event.BootcampID)] <- event
	}
}

func (c *AggregateConsumer) shardOf(bootcampID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bootcampID))
	return int(h.Sum32() % uint32(len(c.shards)))
}

func (c *AggregateConsumer) work(shard <-chan entity.AggregateEvent) {
	defer c.wg.Done()
	for event := range shard {
		c.handle(event)
	}
}

// handle retries a failing recompute with exponential backoff. Recomputes are
// idempotent, so a redelivered event is simply handled again.
func (c *AggregateConsumer) handle(event entity.AggregateEvent) {
	if c.handler == nil {
		return
	}

	backoff := c.baseBackoff
	for attempt := 0; ; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}
		if attempt == c.maxRetries {
			slog.Error("failed to recompute aggregate after retries",
				"event_id", event.EventID, "bootcamp_id", event.BootcampID, "aggregate", event.Aggregate, "error", err)
			return
		}

		time.Sleep(backoff)
		backoff *= 2
	}
}
