package pkghook

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type doc struct {
	Name  string
	Trail []string
}

func (*doc) EntityType() string { return "doc" }

type other struct{}

func (*other) EntityType() string { return "other" }

func trace(name string) func(ctx context.Context, d *doc) error {
	return func(_ context.Context, d *doc) error {
		d.Trail = append(d.Trail, name)
		return nil
	}
}

func TestRegistryRunsInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	On(reg, "first", trace("first"), BeforeCreate)
	On(reg, "second", trace("second"), BeforeCreate, BeforeUpdate)
	On(reg, "first", trace("first"), BeforeCreate)

	d := &doc{}
	if err := reg.Run(context.Background(), BeforeCreate, d); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(d.Trail, []string{"first", "second", "first"}) {
		t.Fatalf("unexpected trail: %#v", d.Trail)
	}

	if got := reg.Names("doc", BeforeUpdate); !reflect.DeepEqual(got, []string{"second"}) {
		t.Fatalf("unexpected update hooks: %#v", got)
	}
}

func TestRegistryStopsAtFirstError(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")
	On(reg, "first", trace("first"), BeforeCreate)
	On(reg, "fail", func(context.Context, *doc) error { return boom }, BeforeCreate)
	On(reg, "never", trace("never"), BeforeCreate)

	d := &doc{}
	err := reg.Run(context.Background(), BeforeCreate, d)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !reflect.DeepEqual(d.Trail, []string{"first"}) {
		t.Fatalf("unexpected trail: %#v", d.Trail)
	}
}

func TestRegistryIgnoresOtherEntityTypes(t *testing.T) {
	reg := NewRegistry()
	called := false
	On(reg, "other", func(context.Context, *other) error {
		called = true
		return nil
	}, BeforeCreate)

	if err := reg.Run(context.Background(), BeforeCreate, &doc{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if called {
		t.Fatalf("hook for another entity type must not run")
	}
}

func TestRegistryTypeMismatch(t *testing.T) {
	reg := NewRegistry()
	reg.Register("doc", BeforeCreate, "raw", func(ctx context.Context, e Entity) error { return nil })
	On(reg, "typed", trace("typed"), BeforeCreate)

	// A foreign type reporting the same entity type name is rejected by the typed hook.
	err := reg.Run(context.Background(), BeforeCreate, impostor{})
	if err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

type impostor struct{}

func (impostor) EntityType() string { return "doc" }

func TestRegistrySeal(t *testing.T) {
	reg := NewRegistry()
	reg.Seal()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when registering after seal")
		}
	}()
	On(reg, "late", trace("late"), BeforeCreate)
}

func TestEventString(t *testing.T) {
	cases := map[Event]string{
		BeforeCreate: "beforeCreate",
		BeforeUpdate: "beforeUpdate",
		BeforeDelete: "beforeDelete",
		AfterSave:    "afterSave",
		AfterDelete:  "afterDelete",
		Event(42):    "unknown",
	}
	for ev, want := range cases {
		if got := ev.String(); got != want {
			t.Fatalf("Event(%d).String() = %q, want %q", ev, got, want)
		}
	}
}
