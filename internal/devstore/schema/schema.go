package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"
	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkggeo"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
	"github.com/stepski011/DevStore/internal/pkg/pkguid"
)

type Validator interface {
	Struct(s any) error
}

type Hasher interface {
	Hash(plain string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.AggregateEvent) error
}

type Dependency struct {
	Validator     Validator
	Geocoder      pkggeo.Geocoder
	Hasher        Hasher
	Events        EventPublisher
	ID            pkguid.StringID
	Relationships *Relationships
}

var saves = []pkghook.Event{pkghook.BeforeCreate, pkghook.BeforeUpdate}

// Register installs the lifecycle hooks of every document type. Validation
// always runs first so later hooks see well-formed documents.
func Register(r *pkghook.Registry, dep Dependency) {
	h := &hooks{dep: dep}

	pkghook.On(r, "validate", h.validateBootcamp, saves...)
	pkghook.On(r, "slug", h.slugify, saves...)
	pkghook.On(r, "geocode", h.geocode, saves...)
	pkghook.On(r, "cascade", h.cascade, pkghook.BeforeDelete)

	pkghook.On(r, "validate", h.validateCourse, saves...)
	pkghook.On(r, "averageCost", h.averageCost, pkghook.AfterSave, pkghook.AfterDelete)

	pkghook.On(r, "validate", h.validateReview, saves...)
	pkghook.On(r, "averageRating", h.averageRating, pkghook.AfterSave, pkghook.AfterDelete)

	pkghook.On(r, "validate", h.validateUser, saves...)
	pkghook.On(r, "password", h.password, saves...)
}

type hooks struct {
	dep Dependency
}

func (h *hooks) validateBootcamp(_ context.Context, b *entity.Bootcamp) error {
	return h.dep.Validator.Struct(b)
}

func (h *hooks) validateCourse(_ context.Context, c *entity.Course) error {
	return h.dep.Validator.Struct(c)
}

func (h *hooks) validateReview(_ context.Context, r *entity.Review) error {
	return h.dep.Validator.Struct(r)
}

func (h *hooks) validateUser(_ context.Context, u *entity.User) error {
	return h.dep.Validator.Struct(u)
}

func (h *hooks) slugify(_ context.Context, b *entity.Bootcamp) error {
	b.Slug = slug.Make(b.Name)
	return nil
}

// geocode replaces a free-form address with the structured location. The
// address is not stored once resolved.
func (h *hooks) geocode(ctx context.Context, b *entity.Bootcamp) error {
	address := strings.TrimSpace(b.Address)
	if address == "" {
		return nil
	}

	results, err := h.dep.Geocoder.Geocode(ctx, address)
	if err != nil {
		return pkgerror.NewExternal(err, "Geocoding service unavailable")
	}
	if len(results) == 0 {
		return pkgerror.NewBusiness("Address could not be geocoded", pkgerror.CodeInvalidInput)
	}

	first := results[0]
	loc := entity.NewPoint(first.Longitude, first.Latitude)
	loc.FormattedAddress = first.FormattedAddress
	loc.Street = first.Street
	loc.City = first.City
	loc.State = first.StateCode
	loc.Zipcode = first.Zipcode
	loc.Country = first.CountryCode

	b.Location = loc
	b.Address = ""
	return nil
}

func (h *hooks) password(_ context.Context, u *entity.User) error {
	plain, dirty := u.PendingPassword()
	if !dirty {
		return nil
	}

	hash, err := h.dep.Hasher.Hash(plain)
	if err != nil {
		return pkgerror.NewServer(fmt.Errorf("hash password: %w", err))
	}
	u.PasswordHashed(hash)
	return nil
}

// cascade removes the children of a bootcamp before the bootcamp itself. A
// failing child collection aborts the delete; children already removed stay
// removed.
func (h *hooks) cascade(ctx context.Context, b *entity.Bootcamp) error {
	for _, rel := range h.dep.Relationships.ChildrenOf(b.EntityType()) {
		n, err := rel.Remove(ctx, store.Eq(rel.ForeignKey, b.ID))
		if err != nil {
			return fmt.Errorf("cascade delete %s of %s %s: %w", rel.ChildType, rel.ParentType, b.ID, err)
		}
		slog.InfoContext(ctx, "cascade delete", "parent", rel.ParentType, "child", rel.ChildType, "parent_id", b.ID, "removed", n)
	}
	return nil
}

func (h *hooks) averageCost(ctx context.Context, c *entity.Course) error {
	return h.publish(ctx, c.Bootcamp, entity.AggregateCost)
}

func (h *hooks) averageRating(ctx context.Context, r *entity.Review) error {
	return h.publish(ctx, r.Bootcamp, entity.AggregateRating)
}

func (h *hooks) publish(ctx context.Context, bootcampID string, agg entity.Aggregate) error {
	if h.dep.Events == nil {
		return nil
	}
	return h.dep.Events.Publish(ctx, entity.AggregateEvent{
		EventID:    h.dep.ID.Generate(),
		BootcampID: bootcampID,
		Aggregate:  agg,
	})
}
