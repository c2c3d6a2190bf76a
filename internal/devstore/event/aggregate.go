package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
)

// Locker serializes read-modify-write cycles on one bootcamp.
type Locker interface {
	Lock(key string) (unlock func())
}

// Aggregator recomputes the derived averages of a bootcamp from its children.
// Both averages are rebuilt on every event, so the order in which events
// arrive does not matter.
type Aggregator struct {
	Bootcamps store.Collection[entity.Bootcamp]
	Courses   store.Collection[entity.Course]
	Reviews   store.Collection[entity.Review]
	Locks     Locker
}

func (a *Aggregator) Handle(ctx context.Context, event entity.AggregateEvent) error {
	cost, err := a.averageCost(ctx, event.BootcampID)
	if err != nil {
		return err
	}
	rating, err := a.averageRating(ctx, event.BootcampID)
	if err != nil {
		return err
	}

	if a.Locks != nil {
		unlock := a.Locks.Lock(event.BootcampID)
		defer unlock()
	}

	bootcamp, err := a.Bootcamps.Get(ctx, event.BootcampID)
	if errors.Is(err, pkgerror.ErrNotFound) {
		// parent deleted meanwhile, e.g. by a cascade
		slog.InfoContext(ctx, "skip aggregate of missing bootcamp", "bootcamp_id", event.BootcampID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get bootcamp %s: %w", event.BootcampID, err)
	}

	bootcamp.AverageCost = cost
	bootcamp.AverageRating = rating
	if err := a.Bootcamps.Update(ctx, bootcamp); err != nil {
		return fmt.Errorf("update bootcamp %s: %w", event.BootcampID, err)
	}
	return nil
}

func (a *Aggregator) averageCost(ctx context.Context, bootcampID string) (*float64, error) {
	courses, _, err := a.Courses.Find(ctx, store.Eq("bootcamp", bootcampID))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	values := make([]float64, 0, len(courses))
	for _, c := range courses {
		values = append(values, c.Tuition)
	}
	return AverageCost(values), nil
}

func (a *Aggregator) averageRating(ctx context.Context, bootcampID string) (*float64, error) {
	reviews, _, err := a.Reviews.Find(ctx, store.Eq("bootcamp", bootcampID))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	values := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		values = append(values, float64(r.Rating))
	}
	return AverageRating(values), nil
}

// AverageCost is the mean tuition rounded up to the next multiple of ten, or
// nil without courses.
func AverageCost(tuitions []float64) *float64 {
	m, ok := mean(tuitions)
	if !ok {
		return nil
	}
	v := math.Ceil(m/10) * 10
	return &v
}

// AverageRating is the mean rating, or nil without reviews.
func AverageRating(ratings []float64) *float64 {
	m, ok := mean(ratings)
	if !ok {
		return nil
	}
	return &m
}

func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}
