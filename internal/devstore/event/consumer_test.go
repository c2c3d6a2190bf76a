package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stepski011/DevStore/internal/devstore/entity"
)

type handlerFunc func(ctx context.Context, event entity.AggregateEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.AggregateEvent) error {
	return h(ctx, event)
}

func TestAggregateConsumerRetries(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	handler := handlerFunc(func(context.Context, entity.AggregateEvent) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("temporary failure")
		}
		return nil
	})

	consumer := NewAggregateConsumer(bus, handler, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()

	event := entity.AggregateEvent{EventID: "evt-1", BootcampID: "bootcamp-1", Aggregate: entity.AggregateCost}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if err := bus.Publish(context.Background(), event); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected closed bus, got %v", err)
	}
}

func TestAggregateConsumerGivesUpAfterRetries(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	handler := handlerFunc(func(context.Context, entity.AggregateEvent) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("store down")
	})

	consumer := NewAggregateConsumer(bus, handler, ConsumerConfig{Workers: 2, MaxRetries: 1, BaseBackoff: time.Millisecond})
	consumer.Start()
	_ = bus.Publish(context.Background(), entity.AggregateEvent{BootcampID: "bootcamp-1"})
	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestAggregateConsumerSerializesPerBootcamp(t *testing.T) {
	bus := NewBus(100)

	var (
		mu      sync.Mutex
		active  = map[string]int{}
		overlap bool
		order   = map[string][]string{}
	)
	handler := handlerFunc(func(_ context.Context, event entity.AggregateEvent) error {
		mu.Lock()
		active[event.BootcampID]++
		if active[event.BootcampID] > 1 {
			overlap = true
		}
		order[event.BootcampID] = append(order[event.BootcampID], event.EventID)
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		active[event.BootcampID]--
		mu.Unlock()
		return nil
	})

	consumer := NewAggregateConsumer(bus, handler, ConsumerConfig{Workers: 4})
	consumer.Start()

	bootcamps := []string{"devworks", "modern-tech", "codemasters"}
	for i := 0; i < 10; i++ {
		for _, id := range bootcamps {
			ev := entity.AggregateEvent{EventID: string(rune('a' + i)), BootcampID: id, Aggregate: entity.AggregateRating}
			if err := bus.Publish(context.Background(), ev); err != nil {
				t.Fatalf("publish: %v", err)
			}
		}
	}
	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if overlap {
		t.Fatalf("events of one bootcamp were handled concurrently")
	}
	for _, id := range bootcamps {
		got := order[id]
		if len(got) != 10 {
			t.Fatalf("%s: expected 10 events, got %d", id, len(got))
		}
		for i, eventID := range got {
			if eventID != string(rune('a'+i)) {
				t.Fatalf("%s: events out of order: %v", id, got)
			}
		}
	}
}

func TestShardOfIsStable(t *testing.T) {
	c := NewAggregateConsumer(NewBus(1), nil, ConsumerConfig{Workers: 3})
	first := c.shardOf("5d713995b721c3bb38c1f5d0")
	for i := 0; i < 5; i++ {
		if got := c.shardOf("5d713995b721c3bb38c1f5d0"); got != first {
			t.Fatalf("expected shard %d, got %d", first, got)
		}
	}
	if first < 0 || first >= 3 {
		t.Fatalf("shard out of range: %d", first)
	}
}
