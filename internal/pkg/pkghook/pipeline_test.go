package pkghook

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSaveCommitsAfterHooks(t *testing.T) {
	reg := NewRegistry()
	On(reg, "create", trace("create"), BeforeCreate)
	On(reg, "update", trace("update"), BeforeUpdate)
	On(reg, "after", trace("after"), AfterSave)

	d := &doc{}
	persisted := 0
	err := reg.Save(context.Background(), d, Create, func(context.Context) error {
		persisted++
		d.Trail = append(d.Trail, "persist")
		return nil
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if persisted != 1 {
		t.Fatalf("expected one persist, got %d", persisted)
	}
	if !reflect.DeepEqual(d.Trail, []string{"create", "persist", "after"}) {
		t.Fatalf("unexpected trail: %#v", d.Trail)
	}

	d.Trail = nil
	if err := reg.Save(context.Background(), d, Update, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(d.Trail, []string{"update", "after"}) {
		t.Fatalf("unexpected update trail: %#v", d.Trail)
	}
}

func TestSaveAbortedByHookNeverPersists(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("geocoder down")
	On(reg, "fail", func(context.Context, *doc) error { return boom }, BeforeCreate)
	On(reg, "after", trace("after"), AfterSave)

	d := &doc{}
	persisted := false
	err := reg.Save(context.Background(), d, Create, func(context.Context) error {
		persisted = true
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if persisted {
		t.Fatalf("storage must not be touched after abort")
	}
	if len(d.Trail) != 0 {
		t.Fatalf("after hooks must not run on abort: %#v", d.Trail)
	}
}

func TestSaveStorageFailureSkipsAfterHooks(t *testing.T) {
	reg := NewRegistry()
	On(reg, "after", trace("after"), AfterSave)

	d := &doc{}
	storageErr := errors.New("duplicate")
	err := reg.Save(context.Background(), d, Create, func(context.Context) error { return storageErr })
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(d.Trail) != 0 {
		t.Fatalf("after hooks must not run: %#v", d.Trail)
	}
}

func TestSaveAfterHookErrorDoesNotFail(t *testing.T) {
	reg := NewRegistry()
	On(reg, "after", func(context.Context, *doc) error { return errors.New("publish failed") }, AfterSave)

	if err := reg.Save(context.Background(), &doc{}, Create, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("after hook failure must not fail a committed save: %v", err)
	}
}

func TestRunStates(t *testing.T) {
	reg := NewRegistry()
	On(reg, "fail", func(context.Context, *doc) error { return errors.New("no") }, BeforeDelete)

	state, err := reg.run(context.Background(), &doc{}, BeforeCreate, AfterSave, func(context.Context) error { return nil })
	if err != nil || state != StateCommitted {
		t.Fatalf("expected committed, got %s (%v)", state, err)
	}

	state, err = reg.run(context.Background(), &doc{}, BeforeDelete, AfterDelete, func(context.Context) error { return nil })
	if err == nil || state != StateAborted {
		t.Fatalf("expected aborted, got %s (%v)", state, err)
	}
}

func TestDeleteRunsCascadeBeforeRemove(t *testing.T) {
	reg := NewRegistry()
	var order []string
	On(reg, "cascade", func(context.Context, *doc) error {
		order = append(order, "cascade")
		return nil
	}, BeforeDelete)
	On(reg, "after", func(context.Context, *doc) error {
		order = append(order, "after")
		return nil
	}, AfterDelete)

	err := reg.Delete(context.Background(), &doc{}, func(context.Context) error {
		order = append(order, "remove")
		return nil
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"cascade", "remove", "after"}) {
		t.Fatalf("unexpected order: %#v", order)
	}
}

func TestDeleteCascadeFailureKeepsParent(t *testing.T) {
	reg := NewRegistry()
	cascadeErr := errors.New("delete courses failed")
	On(reg, "cascade", func(context.Context, *doc) error { return cascadeErr }, BeforeDelete)

	removed := false
	err := reg.Delete(context.Background(), &doc{}, func(context.Context) error {
		removed = true
		return nil
	})
	if !errors.Is(err, cascadeErr) {
		t.Fatalf("expected cascade error, got %v", err)
	}
	if removed {
		t.Fatalf("parent must stay when cascade fails")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StatePending:      "pending",
		StateHooksRunning: "hooks_running",
		StateCommitted:    "committed",
		StateAborted:      "aborted",
		State(9):          "unknown",
	} {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
