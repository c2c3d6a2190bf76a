package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
)

// Import saves fixtures stage by stage so every child finds its parent. Each
// document goes through its hooks: passwords are hashed, addresses geocoded
// and averages recomputed.
func (u *Usecase) Import(ctx context.Context, fx Fixtures, runner Runner) error {
	for _, user := range fx.Users {
		if user.CreatedAt.IsZero() {
			user.CreatedAt = u.clock.Now().UTC()
		}
		user.SetPassword(user.Password)
		runner.Go(ctx, func(ctx context.Context) error {
			return u.lifecycle.Save(ctx, user, pkghook.Create, func(ctx context.Context) error {
				return u.users.Insert(ctx, user)
			})
		})
	}
	if err := runner.Wait(); err != nil {
		return fmt.Errorf("import users: %w", err)
	}

	for _, b := range fx.Bootcamps {
		if b.CreatedAt.IsZero() {
			b.CreatedAt = u.clock.Now().UTC()
		}
		runner.Go(ctx, func(ctx context.Context) error {
			return u.lifecycle.Save(ctx, b, pkghook.Create, func(ctx context.Context) error {
				return u.bootcamps.Insert(ctx, b)
			})
		})
	}
	if err := runner.Wait(); err != nil {
		return fmt.Errorf("import bootcamps: %w", err)
	}

	for _, c := range fx.Courses {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = u.clock.Now().UTC()
		}
		runner.Go(ctx, func(ctx context.Context) error {
			return u.lifecycle.Save(ctx, c, pkghook.Create, func(ctx context.Context) error {
				return u.courses.Insert(ctx, c)
			})
		})
	}
	if err := runner.Wait(); err != nil {
		return fmt.Errorf("import courses: %w", err)
	}

	for _, r := range fx.Reviews {
		if r.CreatedAt.IsZero() {
			r.CreatedAt = u.clock.Now().UTC()
		}
		runner.Go(ctx, func(ctx context.Context) error {
			return u.lifecycle.Save(ctx, r, pkghook.Create, func(ctx context.Context) error {
				return u.reviews.Insert(ctx, r)
			})
		})
	}
	if err := runner.Wait(); err != nil {
		return fmt.Errorf("import reviews: %w", err)
	}

	slog.InfoContext(ctx, "fixtures imported",
		"users", len(fx.Users),
		"bootcamps", len(fx.Bootcamps),
		"courses", len(fx.Courses),
		"reviews", len(fx.Reviews),
	)
	return nil
}

// Purge removes every document of every collection, children first.
func (u *Usecase) Purge(ctx context.Context) error {
	removers := []struct {
		name   string
		remove func(ctx context.Context, q store.Query) (int, error)
	}{
		{"reviews", u.reviews.DeleteMany},
		{"courses", u.courses.DeleteMany},
		{"bootcamps", u.bootcamps.DeleteMany},
		{"users", u.users.DeleteMany},
	}

	for _, r := range removers {
		n, err := r.remove(ctx, store.Query{})
		if err != nil {
			return fmt.Errorf("purge %s: %w", r.name, err)
		}
		slog.InfoContext(ctx, "collection purged", "collection", r.name, "deleted", n)
	}
	return nil
}
