package pkgvalidator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
)

type color string

func (c color) Valid() bool { return c == "red" || c == "blue" }

type sample struct {
	Name    string   `json:"name" validate:"required,max=5"`
	Website string   `json:"website,omitempty" validate:"omitempty,weburl"`
	Email   string   `json:"email,omitempty" validate:"omitempty,mailaddr"`
	Colors  []color  `json:"colors" validate:"required,dive,enum"`
	Rating  int      `json:"rating" validate:"omitempty,min=1,max=10"`
	Tags    []string `json:"tags"`
}

func (sample) ValidationMessages() map[string]string {
	return map[string]string{
		"Name.required": "Please add the name",
		"Name.max":      "Name is too long",
		"Website":       "Please use a valid URL with HTTP or HTTPS",
		"Colors":        "Please pick a color",
	}
}

func messagesOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *pkgerror.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
	return verr.Messages()
}

func TestStructValid(t *testing.T) {
	v := New()
	s := sample{
		Name:    "acme",
		Website: "https://www.acme.io/path?q=1",
		Email:   "john.doe@acme.com",
		Colors:  []color{"red", "blue"},
		Rating:  7,
	}
	if err := v.Struct(s); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestStructMessagesInFieldOrder(t *testing.T) {
	v := New()
	s := sample{
		Website: "ftp://acme",
		Email:   "not-an-email",
		Colors:  []color{"green", "red", "pink"},
		Rating:  11,
	}

	got := messagesOf(t, v.Struct(s))
	want := []string{
		"Please add the name",
		"Please use a valid URL with HTTP or HTTPS",
		"Path `email` is invalid.",
		"Please pick a color",
		"Path `rating` is invalid.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("messages = %#v, want %#v", got, want)
	}
}

func TestStructTagSpecificMessage(t *testing.T) {
	v := New()
	got := messagesOf(t, v.Struct(sample{Name: "too long name", Colors: []color{"red"}}))
	if !reflect.DeepEqual(got, []string{"Name is too long"}) {
		t.Fatalf("unexpected messages: %#v", got)
	}
}

func TestStructDefaultRequiredMessage(t *testing.T) {
	type bare struct {
		Title string `json:"title" validate:"required"`
	}
	got := messagesOf(t, New().Struct(bare{}))
	if !reflect.DeepEqual(got, []string{"Path `title` is required."}) {
		t.Fatalf("unexpected messages: %#v", got)
	}
}

func TestStructNonStruct(t *testing.T) {
	err := New().Struct(42)
	var gerr *pkgerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected server error, got %T", err)
	}
}
